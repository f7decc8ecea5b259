// Package vcsprovider is a reference resolve.ContainerProvider backed by
// real version control checkouts, in the spirit of golang-dep's
// vcs_repo.go/vcs_source.go: tags drive VersionSet candidates, branch names
// (and raw commit ids) drive Revision candidates. Manifest parsing - what a
// checked-out tree's dependency constraints actually are - is deliberately
// left to a caller-supplied ManifestFunc, keeping repository access
// separate from manifest parsing the way golang-dep keeps its vcs source
// layer separate from its project analyzer.
package vcsprovider

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/Masterminds/vcs"
	"github.com/pkg/errors"

	"github.com/depresolve/gpscore/resolve"
)

// ManifestFunc reads the dependency constraints declared by the checked-out
// tree at dir. A Provider with a nil ManifestFunc treats every checkout as
// dependency-free, which is enough to exercise the resolver end to end
// without a real manifest format.
type ManifestFunc func(dir string) ([]resolve.Constraint, error)

// Provider fetches Containers backed by local clones of real repositories,
// rooted at CacheDir. Construct one per resolve.Resolver invocation; clones
// persist in CacheDir across calls so repeated resolutions in the same
// process reuse the checkout.
type Provider struct {
	CacheDir string
	Manifest ManifestFunc

	mu    sync.Mutex
	repos map[string]vcs.Repo
}

// NewProvider constructs a Provider rooted at cacheDir. manifest may be nil.
func NewProvider(cacheDir string, manifest ManifestFunc) *Provider {
	return &Provider{CacheDir: cacheDir, Manifest: manifest, repos: make(map[string]vcs.Repo)}
}

// Fetch implements resolve.ContainerProvider. id.Source must carry the
// repository's remote URL; id.Name is used only for the local clone's
// directory name and for error messages.
func (p *Provider) Fetch(ctx context.Context, id resolve.PackageId) (resolve.Container, error) {
	if id.Source == "" {
		return nil, errors.Errorf("vcsprovider: %s has no source location to clone from", id.Name)
	}

	repo, err := p.repoFor(id)
	if err != nil {
		return nil, errors.Wrapf(err, "vcsprovider: opening %s", id)
	}

	if !repo.CheckLocal() {
		if err := repo.Get(); err != nil {
			return nil, errors.Wrapf(err, "vcsprovider: cloning %s", id)
		}
	} else if err := repo.Update(); err != nil {
		return nil, errors.Wrapf(err, "vcsprovider: updating %s", id)
	}

	return &container{id: id, repo: repo, manifest: p.Manifest}, nil
}

func (p *Provider) repoFor(id resolve.PackageId) (vcs.Repo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := id.Name + "\x00" + id.Source
	if r, ok := p.repos[key]; ok {
		return r, nil
	}

	local := filepath.Join(p.CacheDir, id.Name)
	r, err := vcs.NewRepo(id.Source, local)
	if err != nil {
		return nil, err
	}
	p.repos[key] = r
	return r, nil
}

// container is the resolve.Container backed by one vcs.Repo checkout.
type container struct {
	id       resolve.PackageId
	repo     vcs.Repo
	manifest ManifestFunc
}

func (c *container) Id() resolve.PackageId { return c.id }

// commitHashPattern matches the hex commit ids vcsprovider treats as
// revisions even when they don't appear in Branches(), the way gps's own
// revision handling accepts raw SHAs alongside named branches.
var commitHashPattern = regexp.MustCompile(`^[0-9a-f]{7,40}$`)

func (c *container) Versions(ctx context.Context) ([]resolve.Version, error) {
	tags, err := c.repo.Tags()
	if err != nil {
		return nil, errors.Wrapf(err, "listing tags for %s", c.id)
	}

	out := make([]resolve.Version, 0, len(tags))
	for _, tag := range tags {
		v, err := resolve.NewVersion(tag)
		if err != nil {
			// Not every tag is a semver tag (release notes tags, CI
			// markers); skip rather than fail the whole listing.
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *container) DependenciesAt(v resolve.Version) ([]resolve.Constraint, error) {
	if err := c.checkout(v.String()); err != nil {
		return nil, err
	}
	return c.readManifest()
}

func (c *container) DependenciesAtRevision(r resolve.Revision) ([]resolve.Constraint, error) {
	if err := c.checkout(string(r)); err != nil {
		return nil, err
	}
	return c.readManifest()
}

func (c *container) UnversionedDependencies() ([]resolve.Constraint, error) {
	return c.readManifest()
}

func (c *container) checkout(rev string) error {
	if err := c.repo.UpdateVersion(rev); err != nil {
		return errors.Wrapf(err, "checking out %s at %s", c.id, rev)
	}
	return nil
}

func (c *container) readManifest() ([]resolve.Constraint, error) {
	if c.manifest == nil {
		return nil, nil
	}
	return c.manifest(c.repo.LocalPath())
}

func (c *container) IsToolsVersionCompatible(v resolve.Version) bool {
	return true
}

func (c *container) UpdatedIdentifier(b resolve.BoundVersion) resolve.PackageId {
	return c.id
}

func (c *container) SupportsRevision(r resolve.Revision) bool {
	if commitHashPattern.MatchString(string(r)) {
		return true
	}
	branches, err := c.repo.Branches()
	if err != nil {
		return false
	}
	for _, b := range branches {
		if b == string(r) {
			return true
		}
	}
	return false
}

var _ fmt.Stringer = (*container)(nil)

func (c *container) String() string { return c.id.String() }
