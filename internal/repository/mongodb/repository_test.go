package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/fabric-ledger/internal/domain/models"
)

func TestFabricQuery(t *testing.T) {
	q := fabricQuery(FabricFilter{})
	require.Equal(t, bson.M{"deleted": bson.M{"$ne": true}}, q)

	q = fabricQuery(FabricFilter{Search: "  cotton (blue)  "})
	require.Equal(t, bson.M{"$regex": `cotton \(blue\)`, "$options": "i"}, q["fabricName"])

	q = fabricQuery(FabricFilter{IncludeDeleted: true})
	_, hasDeleted := q["deleted"]
	require.False(t, hasDeleted)
}

func TestFabricSetDocument(t *testing.T) {
	f := &models.Fabric{
		FabricName:          "Linen",
		InputMode:           models.InputModeYard,
		NumYards:            12,
		TotalAmount:         96,
		ExpectedItems:       6,
		ActualProducedItems: 4,
	}

	set := fabricSetDocument(f, false)
	require.Equal(t, "Linen", set["fabricName"])
	require.Equal(t, 96.0, set["totalAmount"])
	require.Equal(t, int64(6), set["expectedItems"])
	_, hasActual := set["actualProducedItems"]
	require.False(t, hasActual)
	_, hasDeleted := set["deleted"]
	require.False(t, hasDeleted)

	set = fabricSetDocument(f, true)
	require.Equal(t, 4.0, set["actualProducedItems"])
}

func TestMalformedIDsAreNotFound(t *testing.T) {
	repo := &MongoDBRepository{now: time.Now}
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "not-an-object-id")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = repo.SetActualProduced(ctx, "xyz", 3)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, repo.SoftDelete(ctx, "xyz"), ErrNotFound)
}
