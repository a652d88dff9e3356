package logger

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestContextFields(t *testing.T) {
	base := logrus.NewEntry(logrus.New())

	entry := ContextFields(base, context.Background())
	assert.Empty(t, entry.Data)

	ctx := ContextWithIdentity(context.Background(), "req-1", "NV01")
	entry = ContextFields(base.WithField("module", "staff"), ctx)
	assert.Equal(t, logrus.Fields{"module": "staff", "request_id": "req-1", "staff_id": "NV01"}, entry.Data)

	// giá trị rỗng không được gắn
	entry = ContextFields(base, ContextWithIdentity(context.Background(), "", "NV02"))
	assert.Equal(t, logrus.Fields{"staff_id": "NV02"}, entry.Data)
}
