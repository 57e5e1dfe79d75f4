package templates

import (
	"sort"
	"sync"
	"time"

	"github.com/edbpede/math-sub000/internal/taxonomy"
)

// RecencyLimit bounds the FIFO queue of recently used template ids.
const RecencyLimit = 20

// Registry owns templates and their secondary indices, and offers filtered,
// weighted, anti-repetition selection. Writes are serialised under a single
// lock; reads may run concurrently.
type Registry struct {
	mu sync.RWMutex

	entries map[string]*entry

	byCompetency map[taxonomy.CompetencyArea]map[string]struct{}
	bySkill      map[string]map[string]struct{}
	byGrade      map[taxonomy.GradeRange]map[string]struct{}
	byDifficulty map[taxonomy.Difficulty]map[string]struct{}
	byBinding    map[bool]map[string]struct{}
	byTag        map[string]map[string]struct{}

	// recency holds recently used ids, oldest first, at most one occurrence
	// per id (the latest).
	recency []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:      make(map[string]*entry),
		byCompetency: make(map[taxonomy.CompetencyArea]map[string]struct{}),
		bySkill:      make(map[string]map[string]struct{}),
		byGrade:      make(map[taxonomy.GradeRange]map[string]struct{}),
		byDifficulty: make(map[taxonomy.Difficulty]map[string]struct{}),
		byBinding:    make(map[bool]map[string]struct{}),
		byTag:        make(map[string]map[string]struct{}),
	}
}

// Register validates and adds a template. Tags are deduplicated. Fails with
// DuplicateIDError, MissingFieldError, InvalidEnumError, or
// InsufficientHintsError.
func (r *Registry) Register(id, name string, gen Generator, meta Metadata) error {
	if id == "" {
		return &MissingFieldError{Field: "id"}
	}
	if name == "" {
		return &MissingFieldError{Field: "name"}
	}
	if gen == nil {
		return &MissingFieldError{Field: "generator"}
	}
	if meta.SkillID == "" {
		return &MissingFieldError{Field: "skill_id"}
	}
	if !meta.CompetencyArea.Valid() {
		return &InvalidEnumError{Field: "competency_area", Value: string(meta.CompetencyArea)}
	}
	if !meta.GradeRange.Valid() {
		return &InvalidEnumError{Field: "grade_range", Value: string(meta.GradeRange)}
	}
	if !meta.Difficulty.Valid() {
		return &InvalidEnumError{Field: "difficulty", Value: string(meta.Difficulty)}
	}
	if got := len(gen.Hints()); got < MinHintProviders {
		return &InsufficientHintsError{Got: got, Want: MinHintProviders}
	}

	meta.Tags = dedupTags(meta.Tags)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return &DuplicateIDError{ID: id}
	}

	r.entries[id] = &entry{id: id, name: name, generator: gen, meta: meta}

	addIndex(r.byCompetency, meta.CompetencyArea, id)
	addIndex(r.bySkill, meta.SkillID, id)
	addIndex(r.byGrade, meta.GradeRange, id)
	addIndex(r.byDifficulty, meta.Difficulty, id)
	addIndex(r.byBinding, meta.IsBinding, id)
	for _, tag := range meta.Tags {
		addIndex(r.byTag, tag, id)
	}
	return nil
}

// Unregister removes a template and scrubs it from every index and the
// recency queue. Returns false if the id is unknown.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return false
	}
	delete(r.entries, id)

	removeIndex(r.byCompetency, e.meta.CompetencyArea, id)
	removeIndex(r.bySkill, e.meta.SkillID, id)
	removeIndex(r.byGrade, e.meta.GradeRange, id)
	removeIndex(r.byDifficulty, e.meta.Difficulty, id)
	removeIndex(r.byBinding, e.meta.IsBinding, id)
	for _, tag := range e.meta.Tags {
		removeIndex(r.byTag, tag, id)
	}

	for i, rid := range r.recency {
		if rid == id {
			r.recency = append(r.recency[:i], r.recency[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a read-only view of a template.
func (r *Registry) Get(id string) (View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return View{}, false
	}
	return viewOf(e), true
}

// Generator returns the opaque generator handle for a template.
func (r *Registry) Generator(id string) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.generator, true
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// All returns read-only views of every template, sorted by id.
func (r *Registry) All() []View {
	r.mu.RLock()
	defer r.mu.RUnlock()

	views := make([]View, 0, len(r.entries))
	for _, e := range r.entries {
		views = append(views, viewOf(e))
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views
}

// MarkUsed records a selection: the id moves to the newest end of the
// recency queue (evicting from the head past RecencyLimit), its usage count
// increments, and its last-used instant updates. Unknown ids are ignored.
func (r *Registry) MarkUsed(id string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return
	}
	e.usageCount++
	t := now
	e.lastUsed = &t

	// Keep only the latest occurrence per id.
	for i, rid := range r.recency {
		if rid == id {
			r.recency = append(r.recency[:i], r.recency[i+1:]...)
			break
		}
	}
	r.recency = append(r.recency, id)
	if len(r.recency) > RecencyLimit {
		r.recency = r.recency[len(r.recency)-RecencyLimit:]
	}
}

// RecentlyUsed returns the recency queue, oldest first.
func (r *Registry) RecentlyUsed() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.recency))
	copy(out, r.recency)
	return out
}

func viewOf(e *entry) View {
	v := View{
		ID:         e.id,
		Name:       e.name,
		Metadata:   e.meta,
		UsageCount: e.usageCount,
	}
	if e.lastUsed != nil {
		t := *e.lastUsed
		v.LastUsed = &t
	}
	return v
}

func dedupTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func addIndex[K comparable](idx map[K]map[string]struct{}, key K, id string) {
	bucket, ok := idx[key]
	if !ok {
		bucket = make(map[string]struct{})
		idx[key] = bucket
	}
	bucket[id] = struct{}{}
}

func removeIndex[K comparable](idx map[K]map[string]struct{}, key K, id string) {
	bucket, ok := idx[key]
	if !ok {
		return
	}
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(idx, key)
	}
}
