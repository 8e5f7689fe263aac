package texture

import (
	"sync"

	"Shade3D/internal/logger"

	"go.uber.org/zap"
)

// Stats provides debugging and profiling information
type Stats struct {
	TotalTextures int
	CacheHits     int
	CacheMisses   int
	TotalMemoryMB float64
}

// Manager loads textures and caches them by path with reference counting so
// a texture shared between material sets is decoded once.
type Manager struct {
	cache    map[string]*Texture
	refCount map[*Texture]int
	mu       sync.RWMutex
	stats    Stats
}

// NewManager creates a new texture manager instance
func NewManager() *Manager {
	return &Manager{
		cache:    make(map[string]*Texture),
		refCount: make(map[*Texture]int),
	}
}

// Load loads a texture from file or returns the cached instance.
// Automatically increments the reference count.
func (m *Manager) Load(path string) (*Texture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tex, exists := m.cache[path]; exists {
		m.refCount[tex]++
		m.stats.CacheHits++
		logger.Log.Debug("Texture cache hit",
			zap.String("path", path),
			zap.Int("refCount", m.refCount[tex]))
		return tex, nil
	}

	m.stats.CacheMisses++
	tex, err := Load(path)
	if err != nil {
		return nil, err
	}

	m.cache[path] = tex
	m.refCount[tex] = 1
	m.stats.TotalTextures++
	m.stats.TotalMemoryMB += float64(tex.Width*tex.Height*16) / (1024 * 1024)

	logger.Log.Debug("Texture loaded",
		zap.String("path", path),
		zap.Int("width", tex.Width),
		zap.Int("height", tex.Height))
	return tex, nil
}

// Release decrements a texture's reference count and evicts it from the
// cache when the count reaches zero.
func (m *Manager) Release(tex *Texture) {
	if tex == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	count, exists := m.refCount[tex]
	if !exists {
		return
	}
	count--
	if count > 0 {
		m.refCount[tex] = count
		return
	}

	delete(m.refCount, tex)
	delete(m.cache, tex.Name)
	m.stats.TotalTextures--
	m.stats.TotalMemoryMB -= float64(tex.Width*tex.Height*16) / (1024 * 1024)
	logger.Log.Debug("Texture released", zap.String("path", tex.Name))
}

// Stats returns a copy of the manager's counters.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}
