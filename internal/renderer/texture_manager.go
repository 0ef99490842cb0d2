package renderer

import (
	"fmt"
	"sync"

	"Cloudscape/internal/logger"
	"Cloudscape/internal/texture"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// TextureStats provides debugging and profiling information
type TextureStats struct {
	TotalTextures  int
	CacheHits      int
	CacheMisses    int
	TotalMemoryMB  float64
	ActiveTextures int
}

// textureBackend creates and frees GPU textures.
type textureBackend interface {
	create(buf *texture.Buffer) (uint32, error)
	free(id uint32)
}

// TextureManager uploads packed float textures and tracks their lifetime
// by name with reference counts.
type TextureManager struct {
	backend         textureBackend
	textureCache    map[string]uint32 // name -> OpenGL texture ID
	textureRefCount map[uint32]int    // texture ID -> reference count
	textureNames    map[uint32]string // texture ID -> name
	textureBytes    map[uint32]int    // texture ID -> size in bytes
	mu              sync.RWMutex
	stats           TextureStats
}

// NewTextureManager creates a manager backed by the current OpenGL context.
func NewTextureManager() *TextureManager {
	return newTextureManager(glBackend{})
}

func newTextureManager(backend textureBackend) *TextureManager {
	return &TextureManager{
		backend:         backend,
		textureCache:    make(map[string]uint32),
		textureRefCount: make(map[uint32]int),
		textureNames:    make(map[uint32]string),
		textureBytes:    make(map[uint32]int),
	}
}

// Upload creates a texture from buf under name, or returns the texture
// already uploaded under that name. Either way the reference count goes up.
func (tm *TextureManager) Upload(name string, buf *texture.Buffer) (uint32, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if textureID, exists := tm.textureCache[name]; exists {
		tm.textureRefCount[textureID]++
		tm.stats.CacheHits++

		logger.Log.Debug("Texture cache hit",
			zap.String("name", name),
			zap.Uint32("textureID", textureID),
			zap.Int("refCount", tm.textureRefCount[textureID]))

		return textureID, nil
	}

	tm.stats.CacheMisses++
	if want := buf.Pixels() * buf.Format.Components() * 4; want == 0 || len(buf.Data) != want {
		return 0, fmt.Errorf("texture %q holds %d bytes, expected %d", name, len(buf.Data), want)
	}

	textureID, err := tm.backend.create(buf)
	if err != nil {
		return 0, fmt.Errorf("texture %q: %w", name, err)
	}

	tm.textureCache[name] = textureID
	tm.textureRefCount[textureID] = 1
	tm.textureNames[textureID] = name
	tm.textureBytes[textureID] = len(buf.Data)
	tm.stats.TotalTextures++
	tm.stats.ActiveTextures++
	tm.stats.TotalMemoryMB += float64(len(buf.Data)) / (1 << 20)

	logger.Log.Info("Texture uploaded",
		zap.String("name", name),
		zap.Uint32("textureID", textureID),
		zap.Stringer("format", buf.Format),
		zap.Int("width", buf.Width),
		zap.Int("height", buf.Height),
		zap.Int("depth", buf.Depth))

	return textureID, nil
}

// Lookup returns the texture uploaded under name without touching its
// reference count.
func (tm *TextureManager) Lookup(name string) (uint32, bool) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	id, ok := tm.textureCache[name]
	return id, ok
}

// AddReference increments the reference count for a texture
func (tm *TextureManager) AddReference(textureID uint32) {
	if textureID == 0 {
		return
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	if _, exists := tm.textureRefCount[textureID]; !exists {
		logger.Log.Warn("Attempted to reference unknown texture",
			zap.Uint32("textureID", textureID))
		return
	}
	tm.textureRefCount[textureID]++

	logger.Log.Debug("Texture reference added",
		zap.Uint32("textureID", textureID),
		zap.Int("refCount", tm.textureRefCount[textureID]))
}

// ReleaseTexture decrements reference count and frees texture if count reaches 0
func (tm *TextureManager) ReleaseTexture(textureID uint32) {
	if textureID == 0 {
		return
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	refCount, exists := tm.textureRefCount[textureID]
	if !exists {
		logger.Log.Warn("Attempted to release unknown texture",
			zap.Uint32("textureID", textureID))
		return
	}

	refCount--
	tm.textureRefCount[textureID] = refCount

	logger.Log.Debug("Texture reference released",
		zap.Uint32("textureID", textureID),
		zap.Int("refCount", refCount))

	if refCount <= 0 {
		tm.backend.free(textureID)

		name := tm.textureNames[textureID]
		tm.stats.TotalMemoryMB -= float64(tm.textureBytes[textureID]) / (1 << 20)
		delete(tm.textureCache, name)
		delete(tm.textureRefCount, textureID)
		delete(tm.textureNames, textureID)
		delete(tm.textureBytes, textureID)
		tm.stats.ActiveTextures--

		logger.Log.Info("Texture freed",
			zap.Uint32("textureID", textureID),
			zap.String("name", name))
	}
}

// GetStats returns current texture manager statistics
func (tm *TextureManager) GetStats() TextureStats {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	stats := tm.stats
	stats.ActiveTextures = len(tm.textureRefCount)
	return stats
}

// LogStats logs current texture statistics
func (tm *TextureManager) LogStats() {
	stats := tm.GetStats()
	hitRate := 0.0
	if lookups := stats.CacheHits + stats.CacheMisses; lookups > 0 {
		hitRate = float64(stats.CacheHits) / float64(lookups)
	}
	logger.Log.Info("Texture Manager Stats",
		zap.Int("totalTextures", stats.TotalTextures),
		zap.Int("activeTextures", stats.ActiveTextures),
		zap.Float64("memoryMB", stats.TotalMemoryMB),
		zap.Int("cacheHits", stats.CacheHits),
		zap.Int("cacheMisses", stats.CacheMisses),
		zap.Float64("hitRate", hitRate))
}

// Clear releases all textures regardless of their reference counts.
func (tm *TextureManager) Clear() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for textureID := range tm.textureRefCount {
		tm.backend.free(textureID)
	}

	tm.textureCache = make(map[string]uint32)
	tm.textureRefCount = make(map[uint32]int)
	tm.textureNames = make(map[uint32]string)
	tm.textureBytes = make(map[uint32]int)
	tm.stats.ActiveTextures = 0
	tm.stats.TotalMemoryMB = 0

	logger.Log.Info("Texture manager cleared")
}

// glFormat maps a buffer format to the GL internal format and pixel format.
func glFormat(f texture.Format) (internal int32, format uint32, err error) {
	switch f {
	case texture.R32Float:
		return gl.R32F, gl.RED, nil
	case texture.Rg32Float:
		return gl.RG32F, gl.RG, nil
	case texture.Rgba32Float:
		return gl.RGBA32F, gl.RGBA, nil
	}
	return 0, 0, fmt.Errorf("unsupported texture format %v", f)
}

// glTarget is TEXTURE_2D or TEXTURE_3D.
func glTarget(d texture.Dimension) (uint32, error) {
	switch d {
	case texture.D2:
		return gl.TEXTURE_2D, nil
	case texture.D3:
		return gl.TEXTURE_3D, nil
	}
	return 0, fmt.Errorf("unsupported texture dimension %d", d)
}

type glBackend struct{}

func (glBackend) create(buf *texture.Buffer) (uint32, error) {
	internal, format, err := glFormat(buf.Format)
	if err != nil {
		return 0, err
	}
	target, err := glTarget(buf.Dimension)
	if err != nil {
		return 0, err
	}

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(target, textureID)

	if target == gl.TEXTURE_3D {
		gl.TexImage3D(target, 0, internal,
			int32(buf.Width), int32(buf.Height), int32(buf.Depth),
			0, format, gl.FLOAT, gl.Ptr(buf.Data))
		gl.TexParameteri(target, gl.TEXTURE_WRAP_R, gl.MIRRORED_REPEAT)
	} else {
		gl.TexImage2D(target, 0, internal,
			int32(buf.Width), int32(buf.Height),
			0, format, gl.FLOAT, gl.Ptr(buf.Data))
	}

	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.MIRRORED_REPEAT)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.MIRRORED_REPEAT)
	gl.BindTexture(target, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &textureID)
		return 0, fmt.Errorf("gl error 0x%x during upload", code)
	}
	return textureID, nil
}

func (glBackend) free(id uint32) {
	gl.DeleteTextures(1, &id)
}
