package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// BsonWrapper gom các toán tử cập nhật cơ bản để marshal từ struct
type BsonWrapper struct {
	// Set ghi đè giá trị, ví dụ { $set : {status : "confirmed"}}
	Set interface{} `json:"$set,omitempty" bson:"$set,omitempty"`
	// Unset xóa field
	Unset interface{} `json:"$unset,omitempty" bson:"$unset,omitempty"`
	// Push thêm phần tử vào mảng
	Push interface{} `json:"$push,omitempty" bson:"$push,omitempty"`
	// Pull xóa phần tử khớp điều kiện khỏi mảng
	Pull interface{} `json:"$pull,omitempty" bson:"$pull,omitempty"`
}

// ToMap chuyển struct thành map theo bson tag
func ToMap(s interface{}) (map[string]interface{}, error) {
	var out map[string]interface{}
	raw, err := bson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("bson marshal failed: %w", err)
	}
	if err = bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("bson unmarshal failed: %w", err)
	}
	return out, nil
}

// SetUpdate tạo update {$set: data}, bỏ qua field rỗng có omitempty
func SetUpdate(data interface{}) (map[string]interface{}, error) {
	return ToMap(BsonWrapper{Set: data})
}
