package cache

import (
	"time"

	"github.com/charmbracelet/genprobe/internal/proto"
)

// ModelsTTL is how long a listing is reused for shell completion.
const ModelsTTL = 24 * time.Hour

// Models caches model listings per API.
type Models struct {
	cache *Expiring[[]proto.Model]
}

// NewModels creates a models cache in dir.
func NewModels(dir string) (*Models, error) {
	cache, err := NewExpiring[[]proto.Model](dir, ModelsCache, ModelsTTL)
	if err != nil {
		return nil, err
	}
	return &Models{cache: cache}, nil
}

// Get returns the cached listing for api.
func (m *Models) Get(api string) ([]proto.Model, error) {
	return m.cache.Get(api)
}

// Set stores the listing for api.
func (m *Models) Set(api string, models []proto.Model) error {
	return m.cache.Set(api, models)
}

// Forget drops the listing for api.
func (m *Models) Forget(api string) error {
	return m.cache.Delete(api)
}
