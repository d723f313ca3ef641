package generation

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// HashFile, kept in the output directory, maps every written unit path to the hash of its content.
const HashFile = ".cvgen-hashes.yaml"

func contentHash(content []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(content))
}

func readHashes(dir string) map[string]string {
	hashes := make(map[string]string)
	data, err := os.ReadFile(filepath.Join(dir, HashFile))
	if errors.Is(err, fs.ErrNotExist) {
		return hashes
	}
	if err == nil {
		err = yaml.Unmarshal(data, &hashes)
	}
	if err != nil {
		slog.Warn("write.hashes.ignored", "dir", dir, "err", err)
		return make(map[string]string)
	}

	return hashes
}

func writeHashes(dir string, hashes map[string]string) error {
	data, err := yaml.Marshal(hashes)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, HashFile), data, 0o644)
}

// A unit is unchanged when its hash matches the stored one and the file still has the content's size.
func unchanged(target string, stored string, hash string, size int) bool {
	if stored != hash {
		return false
	}
	info, err := os.Stat(target)
	return err == nil && info.Mode().IsRegular() && info.Size() == int64(size)
}

// WriteUnits writes every unit below dir and returns how many files changed.
// Files whose stored hash matches the unit's content are not rewritten.
func WriteUnits(ctx context.Context, dir string, units Units) (int, error) {
	names := make([]string, 0, len(units))
	for name := range units {
		names = append(names, name)
	}
	sort.Strings(names)

	stored := readHashes(dir)
	hashes := make(map[string]string, len(units))
	var mu sync.Mutex

	var written atomic.Int64
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())
	for _, name := range names {
		unit := units[name]
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			hash := contentHash(unit.Content)
			defer func() {
				mu.Lock()
				hashes[unit.Path] = hash
				mu.Unlock()
			}()

			target := filepath.Join(dir, filepath.FromSlash(unit.Path))
			if unchanged(target, stored[unit.Path], hash, len(unit.Content)) {
				slog.Debug("write.unchanged", "unit", unit.Name, "path", target)
				return nil
			}

			if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
				return fmt.Errorf("write %s: %w", unit.Name, err)
			}
			if err := os.WriteFile(target, unit.Content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", unit.Name, err)
			}

			written.Add(1)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return int(written.Load()), err
	}

	if !maps.Equal(stored, hashes) {
		if err := writeHashes(dir, hashes); err != nil {
			return int(written.Load()), fmt.Errorf("write %s: %w", HashFile, err)
		}
	}

	return int(written.Load()), nil
}
