package billing_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-pos-api/internal/application/billing"
	"github.com/jhoicas/retail-pos-api/internal/domain"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
)

func TestRegistry_PutWithContains(t *testing.T) {
	r := billing.NewInProgressRegistry()
	r.Put(&entity.Bill{ID: "b1"})

	assert.True(t, r.Contains("b1"))
	assert.False(t, r.Contains("b2"))

	err := r.With("b1", func(b *entity.Bill) error {
		assert.Equal(t, "b1", b.ID)
		return nil
	})
	require.NoError(t, err)
}

func TestRegistry_WithDesconocido(t *testing.T) {
	r := billing.NewInProgressRegistry()

	err := r.With("nope", func(b *entity.Bill) error { return nil })
	assert.ErrorIs(t, err, domain.ErrBillNotFound)
}

func TestRegistry_FinishSacaDelRegistro(t *testing.T) {
	r := billing.NewInProgressRegistry()
	r.Put(&entity.Bill{ID: "b1"})

	require.NoError(t, r.Finish("b1", func(b *entity.Bill) error { return nil }))

	assert.False(t, r.Contains("b1"), "finish debe sacar el bill del registro")
	assert.ErrorIs(t, r.With("b1", func(b *entity.Bill) error { return nil }), domain.ErrBillNotFound,
		"mutaciones posteriores al finish deben rechazarse")
}

func TestRegistry_FinishConErrorMantieneElBill(t *testing.T) {
	r := billing.NewInProgressRegistry()
	r.Put(&entity.Bill{ID: "b1"})

	sentinel := domain.NewValidationError("no todavía")
	err := r.Finish("b1", func(b *entity.Bill) error { return sentinel })
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, r.Contains("b1"), "un finish fallido deja el bill en progreso")
}

func TestRegistry_CallersSobreElMismoBillSeSerializan(t *testing.T) {
	r := billing.NewInProgressRegistry()
	r.Put(&entity.Bill{ID: "b1", Items: nil})

	// N goroutines agregan un item cada una; al final deben estar todos.
	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_ = r.With("b1", func(b *entity.Bill) error {
				b.Items = append(b.Items, &entity.BillItem{})
				return nil
			})
		}()
	}
	wg.Wait()

	require.NoError(t, r.With("b1", func(b *entity.Bill) error {
		assert.Len(t, b.Items, n, "cada caller debe observar el estado del anterior")
		return nil
	}))
}
