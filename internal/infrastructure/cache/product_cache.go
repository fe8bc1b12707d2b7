package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
	"github.com/jhoicas/retail-pos-api/internal/domain/repository"
	pkgconfig "github.com/jhoicas/retail-pos-api/pkg/config"
)

var _ repository.ProductRepository = (*CachedProductRepository)(nil)

// CachedProductRepository decora un ProductRepository con un cache de lecturas
// en Redis. GetByCode es el camino caliente (cada addItem y cada línea de
// checkout lo consultan); Create y Update invalidan la llave. List pasa directo.
type CachedProductRepository struct {
	inner  repository.ProductRepository
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient construye el cliente Redis desde la configuración.
func NewRedisClient(cfg pkgconfig.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewCachedProductRepository decora inner con el cache.
func NewCachedProductRepository(inner repository.ProductRepository, client *redis.Client, ttl time.Duration) *CachedProductRepository {
	return &CachedProductRepository{inner: inner, client: client, ttl: ttl}
}

func productKey(code string) string {
	return "product:" + code
}

// Create persiste e invalida la llave (por si quedó un negativo cacheado).
func (r *CachedProductRepository) Create(product *entity.Product) error {
	if err := r.inner.Create(product); err != nil {
		return err
	}
	r.invalidate(product.Code)
	return nil
}

// GetByCode lee primero del cache; ante miss consulta el repositorio y cachea.
// Un Redis caído degrada a lecturas directas, nunca a error.
func (r *CachedProductRepository) GetByCode(code string) (*entity.Product, error) {
	ctx := context.Background()
	raw, err := r.client.Get(ctx, productKey(code)).Bytes()
	if err == nil {
		var p entity.Product
		if json.Unmarshal(raw, &p) == nil {
			return &p, nil
		}
	}

	// Miss, entrada corrupta o Redis caído: repositorio directo.
	product, err := r.inner.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if product != nil {
		if raw, err := json.Marshal(product); err == nil {
			_ = r.client.Set(ctx, productKey(code), raw, r.ttl).Err()
		}
	}
	return product, nil
}

// Update persiste e invalida la llave.
func (r *CachedProductRepository) Update(product *entity.Product) error {
	if err := r.inner.Update(product); err != nil {
		return err
	}
	r.invalidate(product.Code)
	return nil
}

// List pasa directo al repositorio (los listados no se cachean).
func (r *CachedProductRepository) List(limit, offset int) ([]*entity.Product, error) {
	return r.inner.List(limit, offset)
}

func (r *CachedProductRepository) invalidate(code string) {
	// La invalidación fallida expira sola por TTL.
	_ = r.client.Del(context.Background(), productKey(code)).Err()
}
