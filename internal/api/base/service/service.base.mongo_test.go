package basesvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestToUpdateData_WrapsPlainMapInSet(t *testing.T) {
	u, err := ToUpdateData(bson.M{"isOnline": true})
	require.NoError(t, err)
	assert.Equal(t, true, u.Set["isOnline"])
	assert.Nil(t, u.Inc)
}

func TestToUpdateData_KeepsOperators(t *testing.T) {
	u, err := ToUpdateData(bson.M{
		"$inc":  bson.M{"seq": 1},
		"$pull": bson.M{"salaryHistory": bson.M{"time": "2025-04"}},
	})
	require.NoError(t, err)
	assert.Nil(t, u.Set)
	assert.EqualValues(t, 1, u.Inc["seq"])
	assert.Contains(t, u.Pull, "salaryHistory")
}

func TestToUpdateData_PassThrough(t *testing.T) {
	in := &UpdateData{Set: map[string]interface{}{"a": 1}}
	u, err := ToUpdateData(in)
	require.NoError(t, err)
	assert.Same(t, in, u)
}
