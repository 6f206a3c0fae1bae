package security

import "crypto/subtle"

// Client is a machine client allowed to call the admin API.
type Client struct {
	ID      string
	Secret  string
	Perms   []string // e.g. {"catalog.read","catalog.write"}
	Enabled bool
}

// Registry is an in-memory client registry keyed by client id.
type Registry map[string]Client

// DefaultClients is the registry used when no clients are configured.
var DefaultClients = Registry{
	"svc-menu-cms":  {ID: "svc-menu-cms", Secret: "menu-cms-secret", Perms: []string{"catalog.read", "catalog.write"}, Enabled: true},
	"svc-dashboard": {ID: "svc-dashboard", Secret: "dashboard-secret", Perms: []string{"catalog.read"}, Enabled: true},
}

// Authenticate returns the enabled client whose secret matches.
func (r Registry) Authenticate(id, secret string) (Client, bool) {
	cl, ok := r[id]
	if !ok || !cl.Enabled {
		return Client{}, false
	}
	if subtle.ConstantTimeCompare([]byte(cl.Secret), []byte(secret)) != 1 {
		return Client{}, false
	}
	return cl, true
}
