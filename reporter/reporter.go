package reporter

import (
	"fmt"
	"sync"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-testrail-report/summary"
	"github.com/bitrise-steplib/steps-testrail-report/testrail"
)

// Config ...
type Config struct {
	ProjectID  int64
	SuiteID    int64
	TemplateID *int64
	// RunID reuses an externally created run instead of creating one.
	RunID   int64
	RunName string
}

type cachedCase struct {
	rawName   string
	name      string
	caseID    int64
	sectionID int64
}

type specEntry struct {
	localID   string
	sectionID int64
	suiteID   int64
	cases     []*cachedCase
}

// Reporter projects a local spec/case hierarchy onto TestRail sections, cases
// and results, reusing existing remote entities by name instead of
// duplicating them. Remote bookkeeping failures are advisory: the affected
// branch is skipped, nothing is cached for it, and the next run retries it
// from scratch.
//
// The cache lives for one reporting session. All cache mutation and
// create-on-demand work runs under one lock, so concurrent reporting cannot
// create the same remote entity twice.
type Reporter struct {
	client testrail.Client
	logger log.Logger
	cfg    Config

	mu    sync.Mutex
	runID int64
	specs map[string]*specEntry
	now   func() time.Time
}

// NewReporter ...
func NewReporter(client testrail.Client, logger log.Logger, cfg Config) *Reporter {
	return &Reporter{
		client: client,
		logger: logger,
		cfg:    cfg,
		runID:  cfg.RunID,
		specs:  map[string]*specEntry{},
		now:    time.Now,
	}
}

// TrackTopLevel reconciles every top level spec (and recursively its
// children) against the remote section tree. The section snapshot is fetched
// once for the whole pass; sections created during the pass join the
// in-memory snapshot so sibling specs reuse them.
//
// The only returned error is an inconsistent remote section tree, which is a
// defect of the store itself rather than a transient failure.
func (r *Reporter) TrackTopLevel(specs []*summary.Spec) error {
	sections, err := r.client.GetSections(r.cfg.ProjectID, r.cfg.SuiteID)
	if err != nil {
		r.logger.Warnf("Failed to list TestRail sections: %s", err)
		sections = nil
	}

	if _, err := testrail.BuildSectionTree(sections); err != nil {
		return fmt.Errorf("inconsistent remote section tree: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make([]testrail.Section, len(sections))
	copy(snapshot, sections)
	for _, spec := range specs {
		snapshot = r.reconcileSpec(spec, snapshot)
	}

	return nil
}

func (r *Reporter) reconcileSpec(spec *summary.Spec, sections []testrail.Section) []testrail.Section {
	sections, ok := r.ensureSpecHierarchy(spec, sections)
	if !ok {
		// Nothing was cached for this branch, the next run retries it.
		return sections
	}
	for _, child := range spec.Specs {
		sections = r.reconcileSpec(child, sections)
	}
	return sections
}

// ensureSpecHierarchy walks the spec's name chain top-down, adopting the
// existing section matching (name, parent) at each level or creating a
// missing one. The last segment's ids are cached under the spec's local
// identity. A create failure abandons the spec and its descendants: nothing
// is cached, so every following run retries them.
func (r *Reporter) ensureSpecHierarchy(spec *summary.Spec, sections []testrail.Section) ([]testrail.Section, bool) {
	var parentID *int64

	for i, segment := range spec.NameChain {
		name := camelCaseToSpaces(segment)
		currentParent := parentID

		section, created, ok := resolve(r.logger,
			func() (testrail.Section, bool) {
				return findSection(sections, name, currentParent)
			},
			func() (testrail.Section, error) {
				return r.client.AddSection(r.cfg.ProjectID, testrail.AddSectionParams{
					SuiteID:  r.cfg.SuiteID,
					Name:     name,
					ParentID: currentParent,
				})
			},
		)
		if !ok {
			r.logger.Warnf("Failed to create TestRail section %q, skipping spec (%s)", name, spec.ID)
			return sections, false
		}
		if created {
			sections = append(sections, section)
		}

		if i == len(spec.NameChain)-1 {
			r.specs[spec.ID] = &specEntry{
				localID:   spec.ID,
				sectionID: section.ID,
				suiteID:   section.SuiteID,
			}
		}

		id := section.ID
		parentID = &id
	}

	return sections, true
}

// findSection matches on exact name and parent identity; section names are
// only unique among siblings, so the parent is part of the key.
func findSection(sections []testrail.Section, name string, parentID *int64) (testrail.Section, bool) {
	for _, section := range sections {
		if section.Name != name {
			continue
		}
		if (section.ParentID == nil) != (parentID == nil) {
			continue
		}
		if parentID != nil && *section.ParentID != *parentID {
			continue
		}
		return section, true
	}
	return testrail.Section{}, false
}

// StartReporting ensures a run exists before any result submission. When no
// run was supplied and creation fails, the run id stays unset and every later
// submission is silently dropped.
func (r *Reporter) StartReporting() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.runID != 0 {
		return
	}

	name := r.cfg.RunName
	if name == "" {
		name = fmt.Sprintf("Automated run %s", r.now().Format("01/02/2006, 15:04:05PM"))
	}

	run, err := r.client.AddRun(r.cfg.ProjectID, testrail.AddRunParams{
		SuiteID: r.cfg.SuiteID,
		Name:    name,
	})
	if err != nil {
		r.logger.Warnf("Failed to create TestRail run: %s", err)
		return
	}

	r.runID = run.ID
}

// RunID returns the active run id, 0 when none is available.
func (r *Reporter) RunID() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runID
}

// ReportCase submits one executed case's outcome against the cached remote
// ids, creating the remote case on first sight. It reports whether a result
// was submitted; an unresolved case or a missing run drops the result without
// error, the test outcome itself is unaffected.
func (r *Reporter) ReportCase(spec *summary.Spec, testCase *summary.Case) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.specs[spec.ID]
	if !ok {
		r.logger.Debugf("Spec (%s) has no reconciled section, dropping case %q", spec.ID, testCase.Name)
		return false
	}

	cached := r.resolveCase(entry, testCase.Name)
	if cached == nil {
		return false
	}

	if r.runID == 0 {
		return false
	}

	_, err := r.client.AddResultForCase(r.runID, cached.caseID, testrail.AddResultParams{
		StatusID: statusCode(testCase.Status),
		Elapsed:  elapsedValue(testCase.ElapsedSeconds),
		Comment:  formatComment(testCase),
	})
	if err != nil {
		r.logger.Warnf("Failed to submit result for case %q: %s", cached.name, err)
		return false
	}

	return true
}

// resolveCase returns the cached entry for a raw case name, listing and
// creating remote cases on demand. A lookup or create failure caches nothing,
// so the next report attempt for the case retries.
func (r *Reporter) resolveCase(entry *specEntry, rawName string) *cachedCase {
	for _, cached := range entry.cases {
		if cached.rawName == rawName {
			return cached
		}
	}

	title := displayName(rawName)

	remoteCases, err := r.client.GetCases(r.cfg.ProjectID, entry.suiteID, entry.sectionID)
	if err != nil {
		r.logger.Warnf("Failed to list cases of section %d: %s", entry.sectionID, err)
		return nil
	}

	remote, _, ok := resolve(r.logger,
		func() (testrail.Case, bool) {
			for _, remote := range remoteCases {
				if remote.Title == title {
					return remote, true
				}
			}
			return testrail.Case{}, false
		},
		func() (testrail.Case, error) {
			return r.client.AddCase(entry.sectionID, testrail.AddCaseParams{
				Title:      title,
				TemplateID: r.cfg.TemplateID,
			})
		},
	)
	if !ok {
		r.logger.Warnf("Failed to create TestRail case %q, result will be skipped", title)
		return nil
	}

	cached := &cachedCase{
		rawName:   rawName,
		name:      title,
		caseID:    remote.ID,
		sectionID: remote.SectionID,
	}
	entry.cases = append(entry.cases, cached)

	return cached
}

// ApplyCaseFields pushes the given field set to every cached case, best
// effort per case.
func (r *Reporter) ApplyCaseFields(fields map[string]interface{}) {
	if len(fields) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.specs {
		for _, cached := range entry.cases {
			if _, err := r.client.UpdateCase(cached.caseID, fields); err != nil {
				r.logger.Warnf("Failed to update case %q: %s", cached.name, err)
			}
		}
	}
}

// resolve is the shared find-or-create policy of section and case
// reconciliation: adopt the entity the lookup matches, otherwise create one.
// A failed create yields ok=false and the caller must cache nothing, so the
// entity is retried on the next attempt.
func resolve[T any](logger log.Logger, lookup func() (T, bool), create func() (T, error)) (entity T, created bool, ok bool) {
	if entity, ok := lookup(); ok {
		return entity, false, true
	}

	entity, err := create()
	if err != nil {
		logger.Debugf("Remote create failed: %s", err)
		var zero T
		return zero, false, false
	}

	return entity, true, true
}
