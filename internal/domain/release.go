package domain

// Release holds all metadata related to a release.

type Release struct {
	Version *Version
	TagName string
	Title   string
	ID      int64
}

// RepositoryState is a fresh snapshot of the checkout taken at the start of
// every transaction. It is never cached across invocations.
type RepositoryState struct {
	CurrentBranch   string
	IsClean         bool
	LatestTag       string
	ManifestVersion *Version
}
