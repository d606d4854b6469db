package aggregate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/aggregate"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/store"
)

type note struct {
	ID   int
	Body string
}

type noteDTO struct {
	NoteID int
	Body   string
	Tag    string
}

func newNoteService(opts ...aggregate.Option[int, note, noteDTO]) *aggregate.Service[int, note, noteDTO] {
	s := store.NewMemoryStore(
		func(n note) int { return n.ID },
		store.WithAssign(func(n *note, seq *store.Sequence) {
			if n.ID == 0 {
				n.ID = seq.Next("note")
			} else {
				seq.Observe("note", n.ID)
			}
		}),
	)
	return aggregate.New[int, note, noteDTO](identity.KindProduct, s,
		aggregate.Mapper[note, noteDTO]{
			ToDTO:   func(n note) noteDTO { return noteDTO{NoteID: n.ID, Body: n.Body} },
			FromDTO: func(d noteDTO) note { return note{ID: d.NoteID, Body: d.Body} },
		},
		aggregate.ScalarIdentity(
			func(d noteDTO) int { return d.NoteID },
			func(d *noteDTO, id int) { d.NoteID = id },
		),
		opts...,
	)
}

func TestServiceEmptyFindAll(t *testing.T) {
	all, err := newNoteService().FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestServiceSaveFindDelete(t *testing.T) {
	ctx := context.Background()
	svc := newNoteService()

	saved, err := svc.Save(ctx, noteDTO{Body: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 1, saved.NoteID)

	got, err := svc.FindByID(ctx, saved.NoteID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Body)

	require.NoError(t, svc.DeleteByID(ctx, saved.NoteID))
	_, err = svc.FindByID(ctx, saved.NoteID)
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "product", nf.Kind)

	// never stored behaves the same as deleted
	_, err = svc.FindByID(ctx, 42)
	assert.True(t, apperr.IsNotFound(err))

	assert.NoError(t, svc.DeleteByID(ctx, 42))
}

func TestServiceRejectsMalformedIdentityBeforeStoreAccess(t *testing.T) {
	ctx := context.Background()
	svc := newNoteService()

	_, err := svc.FindByID(ctx, 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidIdentity)
	assert.ErrorIs(t, svc.DeleteByID(ctx, -1), apperr.ErrInvalidIdentity)

	_, err = svc.Update(ctx, noteDTO{Body: "no id"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestServiceUpdateByIDPathWins(t *testing.T) {
	ctx := context.Background()
	svc := newNoteService()

	saved, err := svc.Save(ctx, noteDTO{Body: "v1"})
	require.NoError(t, err)

	updated, err := svc.UpdateByID(ctx, saved.NoteID, noteDTO{NoteID: 99, Body: "v2"})
	require.NoError(t, err)
	assert.Equal(t, saved.NoteID, updated.NoteID)

	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "v2", all[0].Body)
}

func TestServiceComposesOnReadsOnly(t *testing.T) {
	ctx := context.Background()
	composed := 0
	svc := newNoteService(aggregate.WithCompose[int, note, noteDTO](func(_ context.Context, d *noteDTO) error {
		composed++
		d.Tag = "composed"
		return nil
	}))

	saved, err := svc.Save(ctx, noteDTO{Body: "x"})
	require.NoError(t, err)
	assert.Empty(t, saved.Tag)

	looked, err := svc.Lookup(ctx, saved.NoteID)
	require.NoError(t, err)
	assert.Empty(t, looked.Tag)

	got, err := svc.FindByID(ctx, saved.NoteID)
	require.NoError(t, err)
	assert.Equal(t, "composed", got.Tag)

	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "composed", all[0].Tag)
	assert.Equal(t, 2, composed)
}

func TestServiceCompositionFailureFailsWholeRead(t *testing.T) {
	ctx := context.Background()
	svc := newNoteService(aggregate.WithCompose[int, note, noteDTO](func(context.Context, *noteDTO) error {
		return apperr.Unavailable("order", 1, errors.New("down"))
	}))
	saved, err := svc.Save(ctx, noteDTO{Body: "x"})
	require.NoError(t, err)

	_, err = svc.FindByID(ctx, saved.NoteID)
	assert.ErrorIs(t, err, apperr.ErrServiceUnavailable)

	all, err := svc.FindAll(ctx)
	assert.Nil(t, all)
	assert.ErrorIs(t, err, apperr.ErrServiceUnavailable)
}

func TestServiceWriteHook(t *testing.T) {
	ctx := context.Background()
	var touched []int
	svc := newNoteService(aggregate.WithWriteHook[int, note, noteDTO](func(_ context.Context, id int) {
		touched = append(touched, id)
	}))

	saved, err := svc.Save(ctx, noteDTO{Body: "x"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteByID(ctx, saved.NoteID))
	assert.Equal(t, []int{saved.NoteID, saved.NoteID}, touched)
}

func TestServiceCompositeIdentityRequiredOnSave(t *testing.T) {
	type line struct{ Order, Product, Qty int }
	s := store.NewMemoryStore(func(l line) identity.OrderItemID {
		return identity.NewOrderItemID(l.Order, l.Product)
	})
	svc := aggregate.New[identity.OrderItemID, line, line](identity.KindOrderItem, s,
		aggregate.Mapper[line, line]{ToDTO: func(l line) line { return l }, FromDTO: func(l line) line { return l }},
		aggregate.Identity[identity.OrderItemID, line]{
			Of:    func(l line) identity.OrderItemID { return identity.NewOrderItemID(l.Order, l.Product) },
			Set:   func(l *line, id identity.OrderItemID) { l.Order, l.Product = id.OrderID, id.ProductID },
			Valid: identity.OrderItemID.Valid,
		},
	)

	_, err := svc.Save(context.Background(), line{Order: 1, Qty: 5})
	assert.ErrorIs(t, err, apperr.ErrInvalidIdentity)

	saved, err := svc.Save(context.Background(), line{Order: 1, Product: 1, Qty: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, saved.Qty)
}

func TestServiceFindComposesLookupWhereDoesNot(t *testing.T) {
	ctx := context.Background()
	svc := newNoteService(aggregate.WithCompose[int, note, noteDTO](func(_ context.Context, d *noteDTO) error {
		d.Tag = "composed"
		return nil
	}))
	for _, body := range []string{"a", "b", "a"} {
		_, err := svc.Save(ctx, noteDTO{Body: body})
		require.NoError(t, err)
	}
	byBody := store.Column("body", "a", func(n note) string { return n.Body })

	found, err := svc.Find(ctx, byBody)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "composed", found[0].Tag)

	raw, err := svc.LookupWhere(ctx, byBody)
	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Empty(t, raw[0].Tag)

	none, err := svc.LookupWhere(ctx, store.Column("body", "z", func(n note) string { return n.Body }))
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestServiceCheckRunsBeforeEveryWrite(t *testing.T) {
	ctx := context.Background()
	svc := newNoteService(aggregate.WithCheck[int, note, noteDTO](func(d noteDTO) error {
		if d.Body == "" {
			return apperr.Invalid("note body required")
		}
		return nil
	}))

	_, err := svc.Save(ctx, noteDTO{})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	saved, err := svc.Save(ctx, noteDTO{Body: "kept"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, noteDTO{NoteID: saved.NoteID})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	_, err = svc.UpdateByID(ctx, saved.NoteID, noteDTO{})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "kept", all[0].Body)
}
