package ports

// Reloader signals connected browsers that output changed.
//
//go:generate mockgen -source=reloader.go -destination=mocks/mock_reloader.go -package=mocks
type Reloader interface {
	// Reload asks every client to reload the page.
	Reload()
	// Inject asks every client to refresh the stylesheets at the given
	// destination-relative paths without reloading the page.
	Inject(paths ...string)
}
