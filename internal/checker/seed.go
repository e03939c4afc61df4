package checker

import (
	"net/url"
	"os"
	"path/filepath"
)

// seedPlan is the result of classifying every entry in opts.Path()
// into remote URL seeds and local filesystem seeds (spec §4.5: "when
// any seed is a filesystem path, the engine binds" the static server).
type seedPlan struct {
	urlSeeds []string
	fsSeeds  []string // absolute filesystem paths
	fsRoot   string   // shared root the static server serves
}

// planSeeds classifies paths and resolves the static server root. It
// returns ErrSeedNotFound (a fatal, pre-crawl error per spec §7
// category 6) if any filesystem seed does not exist.
func planSeeds(paths []string, serverRoot string) (seedPlan, error) {
	var plan seedPlan

	for _, p := range paths {
		if isRemoteURL(p) {
			plan.urlSeeds = append(plan.urlSeeds, p)
			continue
		}

		abs, err := filepath.Abs(filePathFromSeed(p))
		if err != nil {
			return seedPlan{}, ErrSeedNotFound
		}
		if _, err := os.Stat(abs); err != nil {
			return seedPlan{}, ErrSeedNotFound
		}
		plan.fsSeeds = append(plan.fsSeeds, abs)
	}

	if len(plan.fsSeeds) == 0 {
		return plan, nil
	}

	if serverRoot != "" {
		root, err := filepath.Abs(serverRoot)
		if err != nil {
			return seedPlan{}, ErrSeedNotFound
		}
		plan.fsRoot = root
		return plan, nil
	}

	info, err := os.Stat(plan.fsSeeds[0])
	if err != nil {
		return seedPlan{}, ErrSeedNotFound
	}
	if info.IsDir() {
		plan.fsRoot = plan.fsSeeds[0]
	} else {
		plan.fsRoot = filepath.Dir(plan.fsSeeds[0])
	}
	return plan, nil
}

func isRemoteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// filePathFromSeed strips an explicit file:// prefix, if present,
// leaving a plain filesystem path.
func filePathFromSeed(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Scheme == "file" {
		return u.Path
	}
	return raw
}

// seedURLFor rewrites an absolute filesystem path to its URL under the
// synthetic static-server origin (spec §4.5).
func seedURLFor(origin, fsRoot, absPath string) (string, error) {
	rel, err := filepath.Rel(fsRoot, absPath)
	if err != nil {
		return "", err
	}
	return origin + "/" + filepath.ToSlash(rel), nil
}
