package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suderio/loot-table/internal/data"
	"github.com/suderio/loot-table/internal/engine"
	"github.com/suderio/loot-table/internal/parser"
	"github.com/suderio/loot-table/internal/persistence"
	"github.com/suderio/loot-table/internal/rules"
)

// ErrReplayMismatch is returned when replaying a record's events does not
// reproduce its stored values.
var ErrReplayMismatch = errors.New("replayed values differ from record")

// Store defines the dependency required by Session to persist items
type Store interface {
	Append(rec *persistence.Record) error
	Load() ([]persistence.Record, error)
}

// Options configures a Session.
type Options struct {
	// Seed makes rolls reproducible; zero uses crypto/rand.
	Seed int64
	// Random overrides Seed when set.
	Random   engine.RandomSource
	MaxRolls int
	Logger   *slog.Logger
}

// Session ties a loaded definition to a generator and an item log. Generate
// may be called from several goroutines; passes run one at a time.
type Session struct {
	mu     sync.Mutex
	def    *data.Definition
	gen    *engine.Generator
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewSession validates the definition, including its formulas, and prepares
// a generator. store may be nil, in which case items are not persisted.
func NewSession(def *data.Definition, store Store, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	rng := opts.Random
	if rng == nil {
		if opts.Seed != 0 {
			rng = engine.NewSeeded(opts.Seed)
		} else {
			rng = engine.CryptoSource{Logger: logger}
		}
	}

	registry, err := rules.NewRegistry(rules.Roller(rng))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rules registry: %w", err)
	}
	if diags := registry.Validate(def.Tree); len(diags) > 0 {
		return nil, &engine.Fault{Diagnostics: diags}
	}

	gen, err := engine.NewGenerator(def.Tree,
		engine.WithRandom(rng),
		engine.WithFormulas(registry),
		engine.WithLogger(logger.With("table", def.Name)),
		engine.WithMaxRolls(opts.MaxRolls),
	)
	if err != nil {
		return nil, err
	}

	return &Session{
		def:    def,
		gen:    gen,
		store:  store,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Definition returns the loaded table definition.
func (s *Session) Definition() *data.Definition {
	return s.def
}

// GenerateInput parses `Name=Value` seeds and generates one item.
func (s *Session) GenerateInput(inputs []string) (*persistence.Record, error) {
	seeds, err := parser.ParseAssignments(inputs)
	if err != nil {
		return nil, err
	}
	return s.Generate(seeds)
}

// Generate resets the generator, applies the definition's seeds followed by
// seeds, runs a pass and appends the result to the store.
func (s *Session) Generate(seeds []engine.Seed) (*persistence.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen.Reset()
	applied := make([]engine.Seed, 0, len(s.def.Seeds)+len(seeds))
	for _, seed := range append(append([]engine.Seed{}, s.def.Seeds...), seeds...) {
		if err := s.gen.SetVariable(seed.Name, seed.Value); err != nil {
			return nil, fmt.Errorf("seed %s: %w", seed.Name, err)
		}
		applied = append(applied, seed)
	}

	if err := s.gen.RollDefault(); err != nil {
		s.logger.Error("generation aborted", "table", s.def.Name, "error", err)
		return nil, err
	}

	events, err := persistence.WrapEvents(s.gen.Events())
	if err != nil {
		return nil, err
	}

	rec := &persistence.Record{
		ID:        uuid.NewString(),
		Table:     s.def.Name,
		CreatedAt: s.now().UTC(),
		Seeds:     applied,
		Values:    s.gen.ExportState(),
		Warnings:  s.gen.Warnings(),
		Rolls:     s.gen.Rolls(),
		Events:    events,
	}
	s.logger.Debug("item generated", "id", rec.ID, "rolls", rec.Rolls, "warnings", len(rec.Warnings))

	if s.store != nil {
		if err := s.store.Append(rec); err != nil {
			return nil, fmt.Errorf("failed to persist item: %w", err)
		}
	}
	return rec, nil
}

// History returns the stored items generated from this session's table.
func (s *Session) History() ([]persistence.Record, error) {
	if s.store == nil {
		return nil, nil
	}
	records, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load item log: %w", err)
	}
	out := records[:0]
	for _, r := range records {
		if r.Table == s.def.Name {
			out = append(out, r)
		}
	}
	return out, nil
}

// Replay rebuilds a record's variables from its events and checks them
// against the stored values.
func (s *Session) Replay(rec persistence.Record) ([]engine.Snapshot, error) {
	events, err := persistence.UnwrapEvents(rec.Events)
	if err != nil {
		return nil, err
	}
	store, err := engine.NewProjector(s.def.Tree.Variables).Build(events)
	if err != nil {
		return nil, fmt.Errorf("failed to project item %s: %w", rec.ID, err)
	}

	got := store.Snapshot()
	same, err := sameJSON(got, rec.Values)
	if err != nil {
		return nil, err
	}
	if !same {
		return got, fmt.Errorf("%w: item %s", ErrReplayMismatch, rec.ID)
	}
	return got, nil
}

// sameJSON compares two values by their JSON form, so that records read back
// from disk compare equal to freshly built snapshots.
func sameJSON(a, b any) (bool, error) {
	var na, nb any
	for _, pair := range []struct {
		in  any
		out *any
	}{{a, &na}, {b, &nb}} {
		raw, err := json.Marshal(pair.in)
		if err != nil {
			return false, err
		}
		if err := json.Unmarshal(raw, pair.out); err != nil {
			return false, err
		}
	}
	return reflect.DeepEqual(na, nb), nil
}
