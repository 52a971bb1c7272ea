// Package storage persists company config and client records as JSON files.
//
// The layout under the storage root is compatible with earlier wlog data:
//
//	config.json          {"company": {...}}
//	clients/<id>.json    one record per client, logs keyed month then date
//	logos/logo.<ext>     the imported company logo
package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"math"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"wlog/internal/billing"
	"wlog/internal/logger"
	"wlog/pkg/models"
)

const (
	configFile = "config.json"
	clientsDir = "clients"
	logosDir   = "logos"
	clientExt  = ".json"
)

// Store reads and writes records under a storage root on fs.
type Store struct {
	fs       afero.Fs
	root     string
	validate *validator.Validate
	log      zerolog.Logger
}

// NewStore returns a store rooted at root. Nothing is created until the
// first write.
func NewStore(fs afero.Fs, root string) *Store {
	return &Store{
		fs:       fs,
		root:     root,
		validate: newValidator(),
		log:      logger.WithComponent("storage").With().Str("root", root).Logger(),
	}
}

// Root returns the storage root.
func (s *Store) Root() string { return s.root }

// Fs returns the filesystem the store reads from.
func (s *Store) Fs() afero.Fs { return s.fs }

// EnsureDirectories creates the storage root and its subdirectories.
func (s *Store) EnsureDirectories() error {
	for _, dir := range []string{s.root, s.path(clientsDir), s.path(logosDir)} {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return wrap("EnsureDirectories", dir, err)
		}
	}
	return nil
}

// ConfigExists reports whether the company config has been written.
func (s *Store) ConfigExists() (bool, error) {
	ok, err := afero.Exists(s.fs, s.path(configFile))
	return ok, wrap("ConfigExists", configFile, err)
}

// LoadConfig reads config.json. Fields missing from the file keep their
// defaults.
func (s *Store) LoadConfig() (*models.AppConfig, error) {
	cfg := models.NewAppConfig()
	if err := s.readJSON(configFile, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, wrap("LoadConfig", configFile, ErrConfigNotFound)
		}
		return nil, wrap("LoadConfig", configFile, err)
	}
	if cfg.Company.Currency == "" {
		cfg.Company.Currency = models.DefaultCurrency
	}
	return cfg, nil
}

// SaveConfig validates and writes config.json.
func (s *Store) SaveConfig(cfg *models.AppConfig) error {
	if err := s.validateRecord(&cfg.Company); err != nil {
		return wrap("SaveConfig", configFile, err)
	}
	if err := s.writeJSON(configFile, cfg); err != nil {
		return wrap("SaveConfig", configFile, err)
	}
	s.log.Debug().Str("company", cfg.Company.Name).Msg("Saved company config")
	return nil
}

// ClientExists reports whether a record exists for id.
func (s *Store) ClientExists(id string) (bool, error) {
	rel, err := clientPath(id)
	if err != nil {
		return false, wrap("ClientExists", "", err)
	}
	ok, err := afero.Exists(s.fs, s.path(rel))
	return ok, wrap("ClientExists", rel, err)
}

// LoadClient reads the record for id.
func (s *Store) LoadClient(id string) (*models.Client, error) {
	rel, err := clientPath(id)
	if err != nil {
		return nil, wrap("LoadClient", "", err)
	}

	client := models.NewClient()
	if err := s.readJSON(rel, client); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, wrap("LoadClient", rel, ErrClientNotFound)
		}
		return nil, wrap("LoadClient", rel, err)
	}
	if client.Logs == nil {
		client.Logs = make(map[string]map[string]models.WorkLog)
	}
	return client, nil
}

// SaveClient validates and writes the record for id.
func (s *Store) SaveClient(id string, client *models.Client) error {
	rel, err := clientPath(id)
	if err != nil {
		return wrap("SaveClient", "", err)
	}
	if err := s.validateRecord(client); err != nil {
		return wrap("SaveClient", rel, err)
	}
	if err := s.writeJSON(rel, client); err != nil {
		return wrap("SaveClient", rel, err)
	}
	return nil
}

// ListClients returns the IDs of all stored clients in lexical order.
func (s *Store) ListClients() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.path(clientsDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, wrap("ListClients", clientsDir, err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, clientExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, clientExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// AddWorkLog records hours for a client on date (YYYY-MM-DD). A second entry
// for the same date replaces the first.
func (s *Store) AddWorkLog(id, date string, hours float64, message string) error {
	if _, err := billing.ParseDate(date); err != nil {
		return wrap("AddWorkLog", "", err)
	}
	entry := models.WorkLog{Hours: hours, Message: strings.TrimSpace(message)}
	if err := s.validateRecord(&entry); err != nil {
		return wrap("AddWorkLog", "", err)
	}

	client, err := s.LoadClient(id)
	if err != nil {
		return err
	}

	month := billing.MonthOf(date).String()
	if client.Logs[month] == nil {
		client.Logs[month] = make(map[string]models.WorkLog)
	}
	if prev, ok := client.Logs[month][date]; ok {
		s.log.Info().
			Str("client", id).
			Str("date", date).
			Float64("previous_hours", prev.Hours).
			Msg("Replacing existing log entry")
	}
	client.Logs[month][date] = entry

	return s.SaveClient(id, client)
}

// ImportLogo copies the image at src into the logos directory and returns
// the stored path. The source extension is kept; when src has none it is
// derived from the image content.
func (s *Store) ImportLogo(src string) (string, error) {
	data, err := afero.ReadFile(s.fs, src)
	if err != nil {
		return "", wrap("ImportLogo", src, err)
	}

	mime := mimetype.Detect(data)
	ext := strings.ToLower(filepath.Ext(src))
	if ext == "" {
		ext = mime.Extension()
	}
	if !mime.Is("image/jpeg") && !mime.Is("image/png") && !mime.Is("image/gif") {
		s.log.Warn().
			Str("logo", src).
			Str("mime", mime.String()).
			Msg("Logo is not JPEG, PNG or GIF and will be left off invoices")
	}

	if err := s.EnsureDirectories(); err != nil {
		return "", err
	}
	dst := s.path(path.Join(logosDir, "logo"+ext))
	if err := s.writeFile(dst, data); err != nil {
		return "", wrap("ImportLogo", dst, err)
	}
	return dst, nil
}

// ReadLogo returns the bytes of a stored logo.
func (s *Store) ReadLogo(p string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, p)
	return data, wrap("ReadLogo", p, err)
}

func (s *Store) path(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// newValidator returns a validator that also understands the "finite" tag,
// which rejects NaN and infinite floats that JSON cannot encode.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

func (s *Store) validateRecord(v interface{}) error {
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &FieldError{Field: fe.Field(), Tag: fe.Tag(), Value: fe.Value()}
		}
		return errors.Join(ErrInvalidRecord, err)
	}
	return nil
}

func (s *Store) readJSON(rel string, v interface{}) error {
	data, err := afero.ReadFile(s.fs, s.path(rel))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Join(ErrCorruptRecord, err)
	}
	return nil
}

func (s *Store) writeJSON(rel string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := s.EnsureDirectories(); err != nil {
		return err
	}
	return s.writeFile(s.path(rel), append(data, '\n'))
}

// writeFile replaces dst through a temporary file in the same directory so a
// failed write never truncates an existing record.
func (s *Store) writeFile(dst string, data []byte) error {
	tmp, err := afero.TempFile(s.fs, filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = s.fs.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(name)
		return err
	}
	if err := s.fs.Rename(name, dst); err != nil {
		_ = s.fs.Remove(name)
		return err
	}
	return nil
}

func clientPath(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.TrimSpace(id) != id {
		return "", &FieldError{Field: "client", Tag: "id", Value: id, err: ErrInvalidClientID}
	}
	return path.Join(clientsDir, id+clientExt), nil
}
