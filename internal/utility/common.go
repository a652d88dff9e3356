package utility

import (
	"fmt"
	"strings"

	"shop_ops/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseObjectID chuyển chuỗi hex sang ObjectID, lỗi trả về ErrInvalidFormat
func ParseObjectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat,
			fmt.Sprintf("ID không hợp lệ: %s", hex), common.StatusBadRequest, nil)
	}
	return id, nil
}

// PadSequence định dạng số thứ tự thành chuỗi độ dài width, đệm số 0 bên trái
func PadSequence(seq int64, width int) string {
	return fmt.Sprintf("%0*d", width, seq)
}
