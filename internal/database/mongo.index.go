package database

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"shop_ops/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexSpec mô tả một index được khai báo bằng tag `index` trên model.
//
// Cú pháp tag (phân cách bởi dấu phẩy):
//
//	single:1 | single:-1   index đơn (tăng/giảm dần)
//	unique                 index unique
//	sparse                 áp dụng cho unique/compound trên cùng field
//	ttl:<giây>             TTL index
//	compound:<tên>         gom field vào compound index <tên>; tên chứa "_unique" thì unique
//	order:-1               thứ tự của field trong compound index
type IndexSpec struct {
	Name   string
	Keys   bson.D
	Unique bool
	Sparse bool
	TTL    *int32
}

// ParseIndexSpecs đọc tag `index` của model và trả về danh sách index cần tạo
func ParseIndexSpecs(model interface{}) ([]IndexSpec, error) {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}
	if modelType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model phải là struct, nhận %s", modelType.Kind())
	}

	var specs []IndexSpec
	compounds := map[string]*IndexSpec{}
	var compoundOrder []string

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		bsonField := strings.Split(field.Tag.Get("bson"), ",")[0]
		if bsonField == "" || bsonField == "-" {
			continue
		}

		opts := map[string]string{}
		var groups []string
		for _, part := range strings.Split(tag, ",") {
			kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
			value := ""
			if len(kv) == 2 {
				value = kv[1]
			}
			if kv[0] == "compound" {
				groups = append(groups, value)
				continue
			}
			opts[kv[0]] = value
		}
		_, sparse := opts["sparse"]
		order := 1
		if opts["order"] == "-1" {
			order = -1
		}

		if v, ok := opts["single"]; ok {
			dir := 1
			if v == "-1" {
				dir = -1
			}
			specs = append(specs, IndexSpec{Name: bsonField + "_single", Keys: bson.D{{Key: bsonField, Value: dir}}})
		}
		if _, ok := opts["unique"]; ok {
			specs = append(specs, IndexSpec{Name: bsonField + "_unique", Keys: bson.D{{Key: bsonField, Value: 1}}, Unique: true, Sparse: sparse})
		}
		if v, ok := opts["ttl"]; ok {
			ttl, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("TTL không hợp lệ trên field %s: %w", bsonField, err)
			}
			seconds := int32(ttl)
			specs = append(specs, IndexSpec{Name: bsonField + "_ttl", Keys: bson.D{{Key: bsonField, Value: 1}}, TTL: &seconds})
		}
		for _, group := range groups {
			spec, exists := compounds[group]
			if !exists {
				spec = &IndexSpec{Name: group, Unique: strings.Contains(group, "_unique")}
				compounds[group] = spec
				compoundOrder = append(compoundOrder, group)
			}
			spec.Keys = append(spec.Keys, bson.E{Key: bsonField, Value: order})
			spec.Sparse = spec.Sparse || sparse
		}
	}

	sort.Strings(compoundOrder)
	for _, group := range compoundOrder {
		specs = append(specs, *compounds[group])
	}
	return specs, nil
}

// CreateIndexes tạo (hoặc thay thế nếu lệch cấu hình) các index khai báo trên model
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	log := logger.WithModuleAndCollection("database", collection.Name())

	specs, err := ParseIndexSpecs(model)
	if err != nil {
		return err
	}

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("không thể lấy danh sách index: %w", err)
	}
	defer cursor.Close(ctx)

	existingIndexes := map[string]bson.M{}
	for cursor.Next(ctx) {
		var indexInfo bson.M
		if err := cursor.Decode(&indexInfo); err != nil {
			return fmt.Errorf("không thể giải mã thông tin index: %w", err)
		}
		if name, ok := indexInfo["name"].(string); ok {
			existingIndexes[name] = indexInfo
		}
	}

	for _, spec := range specs {
		if existing, ok := existingIndexes[spec.Name]; ok {
			if indexMatches(existing, spec) {
				log.Debugf("Index %s đã tồn tại và đúng cấu hình, bỏ qua", spec.Name)
				continue
			}
			if _, err := collection.Indexes().DropOne(ctx, spec.Name); err != nil {
				return fmt.Errorf("không thể xóa index %s: %w", spec.Name, err)
			}
			log.Infof("Đã xóa index cũ: %s", spec.Name)
		}

		opts := options.Index().SetName(spec.Name)
		if spec.Unique {
			opts.SetUnique(true)
		}
		if spec.Sparse {
			opts.SetSparse(true)
		}
		if spec.TTL != nil {
			opts.SetExpireAfterSeconds(*spec.TTL)
		}
		if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: spec.Keys, Options: opts}); err != nil {
			return fmt.Errorf("không thể tạo index %s: %w", spec.Name, err)
		}
		log.Infof("Đã tạo index: %s", spec.Name)
	}
	return nil
}

// indexMatches so sánh index hiện có với spec (keys, unique, ttl)
func indexMatches(existing bson.M, spec IndexSpec) bool {
	existingKeys, ok := existing["key"].(bson.M)
	if !ok || len(existingKeys) != len(spec.Keys) {
		return false
	}
	for _, key := range spec.Keys {
		if toInt(existingKeys[key.Key]) != key.Value {
			return false
		}
	}
	unique, _ := existing["unique"].(bool)
	if unique != spec.Unique {
		return false
	}
	if spec.TTL != nil {
		if ttl, ok := existing["expireAfterSeconds"].(int32); !ok || ttl != *spec.TTL {
			return false
		}
	}
	return true
}

func toInt(v interface{}) interface{} {
	switch n := v.(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return v
}
