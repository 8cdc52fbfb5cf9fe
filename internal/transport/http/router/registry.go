package router

import (
	"sort"
	"sync"

	httpez "club-cms-api/internal/transport/http/ez"
)

// APIModule mounts routes on the public group and on the group that requires
// a valid token. Modules may implement APIModule, AdminModule or both.
type APIModule interface{ MountAPI(public, authed httpez.EZ) }

// AdminModule mounts routes under /admin, behind authentication and the ADMIN role.
type AdminModule interface{ MountAdmin(admin httpez.EZ) }

// Modules may implement prioritizer to control mount order (lower first).
// Default 100.
type prioritizer interface{ Priority() int }

type Registry struct {
	mu        sync.RWMutex
	apiMods   []APIModule
	adminMods []AdminModule
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

// Register files mod under every module interface it implements.
func (r *Registry) Register(mod any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := mod.(APIModule); ok {
		r.apiMods = append(r.apiMods, m)
	}
	if m, ok := mod.(AdminModule); ok {
		r.adminMods = append(r.adminMods, m)
	}
}

func (r *Registry) MountAll(public, authed, admin httpez.EZ) {
	r.mu.RLock()
	apiMods := append([]APIModule(nil), r.apiMods...)
	adminMods := append([]AdminModule(nil), r.adminMods...)
	r.mu.RUnlock()

	sort.SliceStable(apiMods, func(i, j int) bool { return priorityOf(apiMods[i]) < priorityOf(apiMods[j]) })
	sort.SliceStable(adminMods, func(i, j int) bool { return priorityOf(adminMods[i]) < priorityOf(adminMods[j]) })

	for _, m := range apiMods {
		m.MountAPI(public, authed)
	}
	for _, m := range adminMods {
		m.MountAdmin(admin)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
