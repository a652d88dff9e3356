package staffsvc

import (
	"testing"
	"time"

	staffdto "shop_ops/internal/api/staff/dto"
	staffmodels "shop_ops/internal/api/staff/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	staff := []staffmodels.Staff{
		{StaffID: "A", LastSeen: now.Add(-30 * time.Second).UnixMilli(), StaffInfo: staffmodels.StaffInfo{Name: "An"}},
		{StaffID: "B", LastSeen: now.Add(-OnlineThreshold).UnixMilli()},
		{StaffID: "C"},
	}

	got := statusOf(staff, now)
	assert.Len(t, got, 3)
	assert.True(t, got[0].IsOnline)
	assert.Equal(t, "An", got[0].Name)
	assert.False(t, got[1].IsOnline, "đúng ngưỡng là offline")
	assert.False(t, got[2].IsOnline)
	assert.Zero(t, got[2].LastSeen)
}

func TestUpdateDocument(t *testing.T) {
	_, changed, err := updateDocument(staffdto.StaffUpdateInput{})
	require.NoError(t, err)
	assert.False(t, changed)

	zero := 0.0
	update, changed, err := updateDocument(staffdto.StaffUpdateInput{
		Role:      staffmodels.RoleSaleStaff,
		Salary:    &zero,
		StaffInfo: &staffmodels.StaffInfo{Name: "Lan"},
	})
	require.NoError(t, err)
	assert.True(t, changed)

	set, ok := update["$set"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, staffmodels.RoleSaleStaff, set["role"])
	// lương 0 vẫn được ghi vì truyền con trỏ
	assert.Equal(t, 0.0, set["salary"])
	assert.Equal(t, "Lan", set["staffInfo"].(map[string]interface{})["name"])
	assert.NotContains(t, set, "quitDate")
	assert.NotContains(t, set, "bankInfos")
}
