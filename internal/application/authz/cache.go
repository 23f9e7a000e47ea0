package authz

import (
	"strings"
	"sync"
	"time"

	"github.com/cfl-agro/cfl-back/internal/domain/entity"
)

// Cache es un caché read-through con TTL para contextos de autorización.
// Componente explícito: se construye una vez en el arranque y se inyecta,
// no hay estado a nivel de paquete.
type Cache struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]cacheItem
	now   func() time.Time
}

type cacheItem struct {
	ctx       *entity.AuthContext
	expiresAt time.Time
}

// NewCache construye el caché con el TTL dado.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:   ttl,
		items: make(map[string]cacheItem),
		now:   time.Now,
	}
}

func cacheKey(kind, value string) string {
	return kind + ":" + strings.ToLower(strings.TrimSpace(value))
}

// Get devuelve el contexto cacheado o nil si no existe o expiró.
func (c *Cache) Get(kind, value string) *entity.AuthContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey(kind, value)
	item, ok := c.items[key]
	if !ok {
		return nil
	}
	if c.now().After(item.expiresAt) {
		delete(c.items, key)
		return nil
	}
	return item.ctx
}

// Set guarda un contexto con vencimiento en now+TTL.
func (c *Cache) Set(kind, value string, ctx *entity.AuthContext) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[cacheKey(kind, value)] = cacheItem{
		ctx:       ctx,
		expiresAt: c.now().Add(c.ttl),
	}
}
