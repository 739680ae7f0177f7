package record

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMalformed is returned when the state file is not a valid record document.
	ErrMalformed = errors.New("malformed state file")
	// ErrExists is returned by Init when the state file is already present.
	ErrExists = errors.New("state file already exists")
)

// Store reads and writes a Record at a fixed path.
// Read-modify-write is not locked; one invocation at a time is assumed.
type Store struct {
	path string
}

// NewStore binds a store to the given state file.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads and validates the record. A missing file wraps os.ErrNotExist.
func (s *Store) Load(ctx context.Context) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, fmt.Errorf("state file %s: %w", s.path, os.ErrNotExist)
		}
		return Record{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	rec, err := decode(data)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
	}
	if err := rec.Validate(); err != nil {
		return Record{}, fmt.Errorf("%s: %w", s.path, err)
	}
	return rec, nil
}

// Save validates and writes the record, creating parent directories.
func (s *Store) Save(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(s.path), err)
	}

	data, err := yaml.Marshal(s.merge(rec))
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}

	return writeFile(s.path, data)
}

// document mirrors Record with pointers so absent keys can be told apart from zero.
type document struct {
	Amount *int64 `yaml:"amount"`
	Total  *int64 `yaml:"total"`
}

// decode requires both keys; an empty document is an error, not a zero record.
func decode(data []byte) (Record, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Record{}, err
	}
	if doc.Amount == nil {
		return Record{}, errors.New("missing key amount")
	}
	if doc.Total == nil {
		return Record{}, errors.New("missing key total")
	}
	return Record{Amount: *doc.Amount, Total: *doc.Total}, nil
}

// merge keeps any other keys already in the state file.
// An unreadable or non-mapping file contributes nothing.
func (s *Store) merge(rec Record) map[string]any {
	fields := map[string]any{}
	if data, err := os.ReadFile(s.path); err == nil {
		if err := yaml.Unmarshal(data, &fields); err != nil || fields == nil {
			fields = map[string]any{}
		}
	}
	fields["amount"] = rec.Amount
	fields["total"] = rec.Total
	return fields
}

// writeFile replaces path through a temp file and rename, so readers never see
// a truncated document.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// Init creates an empty record. An existing file is kept unless force is set.
func (s *Store) Init(ctx context.Context, force bool) (Record, error) {
	if !force {
		if _, err := os.Stat(s.path); err == nil {
			return Record{}, fmt.Errorf("%w: %s", ErrExists, s.path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return Record{}, fmt.Errorf("stat %s: %w", s.path, err)
		}
	}

	var rec Record
	if err := s.Save(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Record loads the stored record, appends v and persists the result.
func (s *Store) Record(ctx context.Context, v int64) (Record, error) {
	rec, err := s.Load(ctx)
	if err != nil {
		return Record{}, err
	}

	next, err := rec.Add(v)
	if err != nil {
		return Record{}, err
	}

	if err := s.Save(ctx, next); err != nil {
		return Record{}, err
	}
	return next, nil
}
