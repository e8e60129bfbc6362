// Package get fetches remote task files with go-getter, caching each source
// under .gild so repeated runs do not re-download.
package get

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	getter "github.com/hashicorp/go-getter"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

const cacheBaseDir = ".gild"

// Bytes downloads the file named by a $repo//$file source, e.g.
// github.com/acme/tasks//gild.yaml, and returns its contents. The repository
// part is fetched once per cache directory.
func Bytes(src string) ([]byte, error) {
	parts := strings.SplitN(src, "//", 2)
	if len(parts) != 2 {
		return nil, errors.Errorf("format the source as $repo//$file, like github.com/acme/tasks//gild.yaml: %s", src)
	}
	repo, file := parts[0], parts[1]

	pwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Trace(err)
	}

	replacer := strings.NewReplacer("/", "_", ".", "_", "?", "_", "&", "_", "=", "_")
	dst := filepath.Join(cacheBaseDir, replacer.Replace(repo))

	stat, err := os.Stat(dst)
	switch {
	case err == nil && !stat.IsDir():
		return nil, errors.Errorf("%s is not a directory; remove it so gild can use it as a download cache", dst)
	case err == nil:
		logrus.Debugf("using cached %s from %s", repo, dst)
	case os.IsNotExist(err):
		logrus.Debugf("downloading %s to %s", repo, dst)
		client := &getter.Client{
			Ctx:  context.Background(),
			Src:  repo,
			Dst:  dst,
			Pwd:  pwd,
			Mode: getter.ClientModeDir,
		}
		if err := client.Get(); err != nil {
			return nil, errors.Annotatef(err, "fetching %s", repo)
		}
	default:
		return nil, errors.Trace(err)
	}

	contents, err := os.ReadFile(filepath.Join(dst, file))
	if err != nil {
		return nil, errors.Annotatef(err, "reading %s from %s", file, dst)
	}
	return contents, nil
}

// IsRemote reports whether a --file argument points at a go-getter source
// rather than a local path.
func IsRemote(src string) bool {
	return strings.Contains(src, "//")
}
