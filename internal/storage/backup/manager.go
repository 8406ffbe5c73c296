package backup

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yndnr/snipkit-go/internal/core/domain"
	"github.com/yndnr/snipkit-go/internal/storage"
	"github.com/yndnr/snipkit-go/internal/telemetry/logger"
)

// Magic bytes identify backup files.
var magicBytes = []byte("SNIPBACK")

const (
	filePrefix    = "backup-"
	fileExtension = ".snpb"
	checksumSize  = 32
	headerVersion = 1

	// DefaultKeep is the default number of backups retained by Prune.
	DefaultKeep = 10

	// maxHeaderSize guards against reading a garbage length.
	maxHeaderSize = 64 << 10
)

type header struct {
	Version      int    `json:"version"`
	CreatedAt    int64  `json:"created_at"`
	SnippetCount int    `json:"snippet_count"`
	Source       string `json:"source,omitempty"`
	Encrypted    bool   `json:"encrypted"`
	Salt         []byte `json:"salt,omitempty"`
}

// Config configures the backup manager.
type Config struct {
	// Dir is the directory holding backup files.
	Dir string

	// Keep is the number of newest backups Prune retains.
	Keep int

	// Passphrase enables encryption when non-empty.
	Passphrase []byte

	Logger logger.Logger
}

// Manager creates, lists, and restores backups.
type Manager struct {
	cfg    Config
	logger logger.Logger
}

// NewManager creates a backup manager, creating the directory if needed.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Dir == "" {
		return nil, domain.ErrMissingArgument.WithDetails("backup dir is required")
	}
	if err := ValidatePassphrase(cfg.Passphrase); err != nil {
		return nil, domain.ErrInvalidArgument.WithDetails(err.Error())
	}
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, domain.ErrStorageError.WithCause(fmt.Errorf("backup: create dir: %w", err))
	}
	if cfg.Keep <= 0 {
		cfg.Keep = DefaultKeep
	}

	l := cfg.Logger
	if l == nil {
		l = logger.Default()
	}
	return &Manager{cfg: cfg, logger: l}, nil
}

// Info contains metadata about a backup.
type Info struct {
	ID           string `json:"id" yaml:"id" table:"ID"`
	CreatedAt    int64  `json:"created_at" yaml:"created_at" table:"CREATED,time"`
	SnippetCount int    `json:"snippet_count" yaml:"snippet_count" table:"SNIPPETS"`
	Source       string `json:"source,omitempty" yaml:"source,omitempty" table:"SOURCE,wide"`
	Encrypted    bool   `json:"encrypted" yaml:"encrypted" table:"ENCRYPTED"`
	Size         int64  `json:"size" yaml:"size" table:"SIZE,bytes"`
	Path         string `json:"path" yaml:"path" table:"PATH,wide"`
	Checksum     string `json:"checksum,omitempty" yaml:"checksum,omitempty" table:"-"`
}

// Create writes a backup of snippets. source records where they came from.
func (m *Manager) Create(snippets []*domain.Snippet, source string) (*Info, error) {
	now := time.Now()
	id := m.generateID(now)

	data, err := json.Marshal(snippets)
	if err != nil {
		return nil, domain.ErrInternal.WithCause(fmt.Errorf("backup: marshal snippets: %w", err))
	}

	hdr := header{
		Version:      headerVersion,
		CreatedAt:    now.UnixMilli(),
		SnippetCount: len(snippets),
		Source:       source,
		Encrypted:    len(m.cfg.Passphrase) > 0,
	}

	var key []byte
	if hdr.Encrypted {
		if hdr.Salt, err = NewSalt(); err != nil {
			return nil, domain.ErrInternal.WithCause(err)
		}
		if key, err = DeriveKey(m.cfg.Passphrase, hdr.Salt); err != nil {
			return nil, domain.ErrInvalidArgument.WithCause(err)
		}
		defer ZeroKey(key)
	}

	hdrJSON, err := json.Marshal(hdr)
	if err != nil {
		return nil, domain.ErrInternal.WithCause(fmt.Errorf("backup: marshal header: %w", err))
	}

	if hdr.Encrypted {
		if data, err = seal(key, data, hdrJSON); err != nil {
			return nil, domain.ErrInternal.WithCause(err)
		}
	}

	tempPath := filepath.Join(m.cfg.Dir, id+".tmp")
	sum, err := writeFile(tempPath, hdrJSON, data)
	if err != nil {
		os.Remove(tempPath)
		return nil, domain.ErrStorageError.WithCause(err)
	}

	stat, err := os.Stat(tempPath)
	if err != nil {
		os.Remove(tempPath)
		return nil, domain.ErrStorageError.WithCause(err)
	}

	finalPath := filepath.Join(m.cfg.Dir, id+fileExtension)
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return nil, domain.ErrStorageError.WithCause(fmt.Errorf("backup: rename: %w", err))
	}

	m.logger.Debug("backup created", "id", id, "snippets", len(snippets), "encrypted", hdr.Encrypted)

	return &Info{
		ID:           id,
		CreatedAt:    hdr.CreatedAt,
		SnippetCount: hdr.SnippetCount,
		Source:       source,
		Encrypted:    hdr.Encrypted,
		Size:         stat.Size(),
		Path:         finalPath,
		Checksum:     hex.EncodeToString(sum),
	}, nil
}

// writeFile writes the framed backup and its checksum trailer to path.
func writeFile(path string, hdrJSON, data []byte) ([]byte, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("backup: create temp file: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	w := io.MultiWriter(file, hash)

	var lenBuf [4]byte
	if _, err := w.Write(magicBytes); err != nil {
		return nil, err
	}
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(hdrJSON)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return nil, fmt.Errorf("backup: write header length: %w", err)
	}
	if _, err := w.Write(hdrJSON); err != nil {
		return nil, fmt.Errorf("backup: write header: %w", err)
	}
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return nil, fmt.Errorf("backup: write data length: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("backup: write data: %w", err)
	}

	// Checksum trailer is not part of the hash.
	sum := hash.Sum(nil)
	if _, err := file.Write(sum); err != nil {
		return nil, fmt.Errorf("backup: write checksum: %w", err)
	}
	if err := file.Sync(); err != nil {
		return nil, fmt.Errorf("backup: sync: %w", err)
	}
	return sum, file.Close()
}

// Open verifies and decodes the backup with the given ID.
func (m *Manager) Open(id string) ([]*domain.Snippet, *Info, error) {
	path, err := m.pathFor(id)
	if err != nil {
		return nil, nil, err
	}
	return m.loadFile(path)
}

// Restore replaces the document with the contents of backup id.
func (m *Manager) Restore(ctx context.Context, id string, doc storage.Document) (*Info, error) {
	snippets, info, err := m.Open(id)
	if err != nil {
		return nil, err
	}
	if err := doc.Save(ctx, snippets); err != nil {
		return nil, err
	}
	m.logger.Info("backup restored", "id", info.ID, "snippets", len(snippets), "location", doc.Location())
	return info, nil
}

// Latest returns the newest backup, or ErrBackupNotFound if there is none.
func (m *Manager) Latest() (*Info, error) {
	infos, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, domain.ErrBackupNotFound.WithDetails("no backups in " + m.cfg.Dir)
	}
	return infos[len(infos)-1], nil
}

func (m *Manager) pathFor(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return "", domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("invalid backup id %q", id))
	}
	path := filepath.Join(m.cfg.Dir, strings.TrimSuffix(id, fileExtension)+fileExtension)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrBackupNotFound.WithDetails(id)
		}
		return "", domain.ErrStorageError.WithCause(err)
	}
	return path, nil
}

func (m *Manager) loadFile(path string) ([]*domain.Snippet, *Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, domain.ErrStorageError.WithCause(err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, domain.ErrStorageError.WithCause(err)
	}
	if stat.Size() < int64(len(magicBytes))+8+checksumSize {
		return nil, nil, domain.ErrBackupCorrupt.WithDetails("file too short")
	}

	// Verify checksum.
	dataLen := stat.Size() - checksumSize
	expected := make([]byte, checksumSize)
	if _, err := io.ReadFull(io.NewSectionReader(f, dataLen, checksumSize), expected); err != nil {
		return nil, nil, domain.ErrStorageError.WithCause(err)
	}
	h := sha256.New()
	if _, err := io.CopyN(h, io.NewSectionReader(f, 0, dataLen), dataLen); err != nil {
		return nil, nil, domain.ErrStorageError.WithCause(err)
	}
	if !bytes.Equal(h.Sum(nil), expected) {
		return nil, nil, domain.ErrBackupCorrupt.WithDetails("checksum mismatch")
	}

	br := bufio.NewReader(io.NewSectionReader(f, 0, dataLen))
	hdr, hdrJSON, err := readHeader(br)
	if err != nil {
		return nil, nil, err
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(br, lenBuf[:]); err != nil {
		return nil, nil, domain.ErrBackupCorrupt.WithCause(err)
	}
	size := binary.BigEndian.Uint32(lenBuf[:])
	if int64(size) > dataLen {
		return nil, nil, domain.ErrBackupCorrupt.WithDetails("data length out of range")
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(br, data); err != nil {
		return nil, nil, domain.ErrBackupCorrupt.WithCause(err)
	}

	if hdr.Encrypted {
		if len(m.cfg.Passphrase) == 0 {
			return nil, nil, domain.ErrBackupLocked.WithDetails("passphrase required")
		}
		key, err := DeriveKey(m.cfg.Passphrase, hdr.Salt)
		if err != nil {
			return nil, nil, domain.ErrBackupCorrupt.WithCause(err)
		}
		data, err = open(key, data, hdrJSON)
		ZeroKey(key)
		if err != nil {
			return nil, nil, domain.ErrBackupLocked.WithCause(err)
		}
	}

	var snippets []*domain.Snippet
	if err := json.Unmarshal(data, &snippets); err != nil {
		return nil, nil, domain.ErrBackupCorrupt.WithCause(fmt.Errorf("backup: unmarshal snippets: %w", err))
	}
	if snippets == nil {
		snippets = []*domain.Snippet{}
	}

	info := infoFromHeader(path, hdr, stat.Size())
	info.Checksum = hex.EncodeToString(expected)
	return snippets, info, nil
}

// readHeader reads the magic and the length-prefixed JSON header.
func readHeader(r io.Reader) (*header, []byte, error) {
	magic := make([]byte, len(magicBytes))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, nil, domain.ErrBackupCorrupt.WithCause(err)
	}
	if !bytes.Equal(magic, magicBytes) {
		return nil, nil, domain.ErrBackupCorrupt.WithDetails("invalid magic bytes")
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, nil, domain.ErrBackupCorrupt.WithCause(err)
	}
	hdrLen := binary.BigEndian.Uint32(lenBuf[:])
	if hdrLen == 0 || hdrLen > maxHeaderSize {
		return nil, nil, domain.ErrBackupCorrupt.WithDetails("invalid header length")
	}
	hdrJSON := make([]byte, hdrLen)
	if _, err := io.ReadFull(r, hdrJSON); err != nil {
		return nil, nil, domain.ErrBackupCorrupt.WithCause(err)
	}

	var hdr header
	if err := json.Unmarshal(hdrJSON, &hdr); err != nil {
		return nil, nil, domain.ErrBackupCorrupt.WithCause(fmt.Errorf("backup: unmarshal header: %w", err))
	}
	return &hdr, hdrJSON, nil
}

func infoFromHeader(path string, hdr *header, size int64) *Info {
	return &Info{
		ID:           strings.TrimSuffix(filepath.Base(path), fileExtension),
		CreatedAt:    hdr.CreatedAt,
		SnippetCount: hdr.SnippetCount,
		Source:       hdr.Source,
		Encrypted:    hdr.Encrypted,
		Size:         size,
		Path:         path,
	}
}

// List lists backups oldest first. Only headers are read; checksums are
// verified by Open.
func (m *Manager) List() ([]*Info, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.ErrStorageError.WithCause(err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileExtension) {
			paths = append(paths, filepath.Join(m.cfg.Dir, name))
		}
	}
	sort.Strings(paths)

	var infos []*Info
	for _, p := range paths {
		info, err := statBackup(p)
		if err != nil {
			m.logger.Warn("skipping unreadable backup", "path", p, "error", err)
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func statBackup(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	hdr, _, err := readHeader(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	return infoFromHeader(path, hdr, stat.Size()), nil
}

// Prune deletes all but the newest Keep backups. Returns the number removed.
func (m *Manager) Prune() (int, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		return 0, domain.ErrStorageError.WithCause(err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileExtension) {
			names = append(names, name)
		}
	}
	if len(names) <= m.cfg.Keep {
		return 0, nil
	}
	sort.Strings(names)

	removed := 0
	for _, name := range names[:len(names)-m.cfg.Keep] {
		if err := os.Remove(filepath.Join(m.cfg.Dir, name)); err != nil {
			m.logger.Warn("failed to remove old backup", "name", name, "error", err)
			continue
		}
		removed++
	}
	m.logger.Debug("pruned backups", "removed", removed, "keep", m.cfg.Keep)
	return removed, nil
}

func (m *Manager) generateID(t time.Time) string {
	ts := t.Format("20060102150405")
	seq := 1

	entries, _ := os.ReadDir(m.cfg.Dir)
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, filePrefix+ts+"-") && strings.HasSuffix(name, fileExtension) {
			seq++
		}
	}
	return fmt.Sprintf("%s%s-%04d", filePrefix, ts, seq)
}
