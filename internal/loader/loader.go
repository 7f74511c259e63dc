// Package loader reads level files from disk for trtool: it hashes them,
// caches decoded levels by content hash, decodes batches concurrently and
// resolves display names.
package loader

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/trlevel/internal/config"
	"github.com/Faultbox/trlevel/pkg/trlevel"
)

// Options configures a Manager.
type Options struct {
	Remastered bool
	TR1Demo    bool
	// Platform and Version are passed to the decoder when set.
	Platform   trlevel.Platform
	Version    trlevel.LevelVersion
	Decrypter  trlevel.Decrypter
	Hasher     trlevel.Hasher
	TypeInfo   *trlevel.TypeInfoLookup
	Names      *NameLookup
	// CacheSize is the number of decoded levels kept. Zero disables the cache.
	CacheSize int
	Workers   int
	Logger    *zap.Logger
}

// OptionsFromConfig builds Options from the decode, cache and batch sections.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	opts := Options{
		Remastered: cfg.Decode.Remastered,
		TR1Demo:    cfg.Decode.TR1Demo,
		Workers:    cfg.Batch.Workers,
	}
	if cfg.Cache.Enabled {
		opts.CacheSize = cfg.Cache.Size
	}
	var err error
	if opts.Platform, err = trlevel.ParsePlatform(cfg.Decode.Platform); err != nil {
		return Options{}, errors.Wrap(err, "decode.platform")
	}
	if opts.Version, err = trlevel.ParseVersion(cfg.Decode.Version); err != nil {
		return Options{}, errors.Wrap(err, "decode.version")
	}
	if cfg.Decode.DecryptKey != "" {
		key, err := hex.DecodeString(cfg.Decode.DecryptKey)
		if err != nil {
			return Options{}, errors.Wrap(err, "decode.decrypt_key")
		}
		opts.Decrypter = trlevel.XORDecrypter{Key: key}
	}
	return opts, nil
}

// Result is one decoded level.
type Result struct {
	ID       uuid.UUID
	Path     string
	Hash     string
	Name     string
	Level    *trlevel.Level
	Cached   bool
	Duration time.Duration
}

// Manager loads levels from disk.
type Manager struct {
	opts  Options
	log   *zap.Logger
	cache *lru.Cache[string, *trlevel.Level]

	mu     sync.Mutex
	hits   int
	misses int
}

// NewManager creates a Manager. Missing collaborators get defaults: SHA-256
// hashing, the built-in type table, file name lookup and one worker.
func NewManager(opts Options) (*Manager, error) {
	if opts.Hasher == nil {
		opts.Hasher = trlevel.SHA256Hasher{}
	}
	if opts.TypeInfo == nil {
		opts.TypeInfo = trlevel.DefaultTypeInfo()
	}
	if opts.Names == nil {
		opts.Names = &NameLookup{}
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	m := &Manager{opts: opts, log: opts.Logger}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, *trlevel.Level](opts.CacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "creating level cache")
		}
		m.cache = cache
	}
	return m, nil
}

// Load reads and decodes the level at path.
func (m *Manager) Load(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return m.LoadBytes(path, data)
}

// LoadBytes decodes data as if it had been read from path. A level already
// decoded from the same content under the same file name is returned from
// the cache.
func (m *Manager) LoadBytes(path string, data []byte) (*Result, error) {
	start := time.Now()
	res := &Result{
		ID:   uuid.Must(uuid.NewV7()),
		Path: path,
		Hash: m.opts.Hasher.Hash(data),
	}
	log := m.log.With(zap.Stringer("load_id", res.ID), zap.String("path", path))

	key := cacheKey(res.Hash, path)
	if level, ok := m.cached(key); ok {
		res.Level, res.Cached = level, true
	} else {
		level, err := trlevel.Load(data, m.decodeOptions(path, log)...)
		if err != nil {
			log.Debug("decode failed", zap.Error(err))
			return nil, errors.Wrapf(err, "decoding %s", path)
		}
		res.Level = level
		if m.cache != nil {
			m.cache.Add(key, level)
		}
	}

	res.Name = m.opts.Names.Lookup(res.Level, path, res.Hash)
	res.Duration = time.Since(start)
	log.Info("level loaded",
		zap.Stringer("format", res.Level.Format()),
		zap.String("name", res.Name),
		zap.Bool("cached", res.Cached),
		zap.Duration("duration", res.Duration))
	return res, nil
}

func (m *Manager) decodeOptions(path string, log *zap.Logger) []trlevel.Option {
	opts := []trlevel.Option{
		trlevel.WithFilename(path),
		trlevel.WithRemastered(m.opts.Remastered),
		trlevel.WithDemo(m.opts.TR1Demo),
		trlevel.WithTypeInfo(m.opts.TypeInfo),
		trlevel.WithLogger(log),
	}
	if m.opts.Platform != trlevel.PlatformUnknown {
		opts = append(opts, trlevel.WithPlatform(m.opts.Platform))
	}
	if m.opts.Version != trlevel.VersionUnknown {
		opts = append(opts, trlevel.WithVersion(m.opts.Version))
	}
	if m.opts.Decrypter != nil {
		opts = append(opts, trlevel.WithDecrypter(m.opts.Decrypter))
	}
	return opts
}

// cacheKey joins the content hash with the base file name. The name feeds
// detection (a .TRC extension selects Tomb5) and ends up in the level, so
// the same bytes under two names are two cache entries.
func cacheKey(hash, path string) string {
	return hash + "\x00" + filepath.Base(path)
}

func (m *Manager) cached(key string) (*trlevel.Level, bool) {
	if m.cache == nil {
		return nil, false
	}
	level, ok := m.cache.Get(key)

	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.hits++
	} else {
		m.misses++
	}
	return level, ok
}

// LoadAll decodes paths concurrently with at most Options.Workers files in
// flight. Results are in input order, with nil entries for files that
// failed; the error combines every failure. The context is checked before
// each file starts.
func (m *Manager) LoadAll(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Workers)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := m.Load(path)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, multierr.Combine(errs...)
}

// Stats returns cache hits and misses.
func (m *Manager) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

// Purge empties the cache and resets the statistics.
func (m *Manager) Purge() {
	if m.cache != nil {
		m.cache.Purge()
	}
	m.mu.Lock()
	m.hits, m.misses = 0, 0
	m.mu.Unlock()
}
