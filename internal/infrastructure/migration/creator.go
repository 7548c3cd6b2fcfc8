package migration

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const upTemplate = `-- {{.Name}}
-- {{.Description}}
-- Created {{.Created}}

`

const downTemplate = `-- Rollback of {{.Name}}
-- Created {{.Created}}

`

var upFilePattern = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.up\.sql$`)

// Migration is one up/down file pair
type Migration struct {
	Version uint
	Name    string
}

// String returns the file base name, e.g. 000001_create_records
func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

// CreatedFile describes a pair written by CreateMigration
type CreatedFile struct {
	Migration
	Description string
	Created     string
	UpPath      string
	DownPath    string
}

// CreateMigration writes an empty file pair numbered one above the highest
// version found in dir
func CreateMigration(dir, name, description string) (*CreatedFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := ListMigrations(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	var next uint = 1
	if n := len(existing); n > 0 {
		next = existing[n-1].Version + 1
	}

	cf := &CreatedFile{
		Migration:   Migration{Version: next, Name: base},
		Description: description,
		Created:     time.Now().UTC().Format(time.RFC3339),
	}
	cf.UpPath = filepath.Join(dir, cf.String()+".up.sql")
	cf.DownPath = filepath.Join(dir, cf.String()+".down.sql")

	if err := writeTemplate(cf.UpPath, upTemplate, cf); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := writeTemplate(cf.DownPath, downTemplate, cf); err != nil {
		_ = os.Remove(cf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return cf, nil
}

func writeTemplate(path, text string, data *CreatedFile) error {
	tmpl, err := template.New(filepath.Base(path)).Parse(text)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return tmpl.Execute(f, data)
}

// sanitizeName lowercases name and joins its words with underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// ListMigrations returns the migrations of source ordered by version. A
// missing directory yields an empty list.
func ListMigrations(source fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(source, ".")
	if errors.Is(err, fs.ErrNotExist) {
		return []Migration{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]Migration, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := upFilePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		version, err := strconv.ParseUint(match[1], 10, 32)
		if err != nil {
			continue
		}
		migrations = append(migrations, Migration{Version: uint(version), Name: match[2]})
	}
	slices.SortFunc(migrations, func(a, b Migration) int {
		return cmp.Compare(a.Version, b.Version)
	})
	return migrations, nil
}
