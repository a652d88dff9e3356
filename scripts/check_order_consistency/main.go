// Script kiểm tra dữ liệu phân phối đơn: đơn nằm cả ở kho chờ lẫn đã giao, staffID sót lại trong kho,
// mã đơn trùng và khóa phân phối của hôm nay.
// Chạy: go run ./scripts/check_order_consistency
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"shop_ops/config"
	"shop_ops/internal/clock"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	fmt.Println("=== Kiểm tra dữ liệu phân phối đơn ===")

	cfg := config.NewConfig()
	if cfg == nil {
		log.Fatal("Không thể đọc cấu hình từ file env")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB_ConnectionURI))
	if err != nil {
		log.Fatalf("Không thể kết nối với MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Không thể ping MongoDB: %v", err)
	}
	db := client.Database(cfg.MongoDB_DBName)
	problems := 0

	// 1. Một đơn chỉ được nằm ở đúng một nơi
	fmt.Println("\n--- Đơn nằm ở cả new_orders và shop_orders ---")
	var both []bson.M
	cursor, err := db.Collection("new_orders").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "shop_orders",
			"localField":   "orderCode",
			"foreignField": "orderCode",
			"as":           "assigned",
		}}},
		{{Key: "$match", Value: bson.M{"assigned.0": bson.M{"$exists": true}}}},
		{{Key: "$project", Value: bson.M{"orderCode": 1, "staffID": 1, "assignedTo": "$assigned.staffID"}}},
	})
	if err != nil {
		log.Fatalf("Lỗi aggregate: %v", err)
	}
	_ = cursor.All(ctx, &both)
	for _, d := range both {
		fmt.Printf("  ⚠️  %v (kho: %q, đã giao cho: %v)\n", d["orderCode"], d["staffID"], d["assignedTo"])
	}
	problems += len(both)
	fmt.Printf("Số đơn trùng vị trí: %d\n", len(both))

	// 2. staffID còn sót trong kho (sẽ được xóa ở lần phân phối lại kế tiếp)
	fmt.Println("\n--- Đơn trong kho còn staffID ---")
	stray, err := db.Collection("new_orders").CountDocuments(ctx, bson.M{"staffID": bson.M{"$ne": ""}})
	if err != nil {
		log.Fatalf("Lỗi đếm: %v", err)
	}
	fmt.Printf("Số đơn: %d\n", stray)

	// 3. Mã đơn trùng trong shop_orders
	fmt.Println("\n--- Mã đơn trùng trong shop_orders ---")
	var dups []bson.M
	cursor, err = db.Collection("shop_orders").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$orderCode", "count": bson.M{"$sum": 1}}}},
		{{Key: "$match", Value: bson.M{"count": bson.M{"$gt": 1}}}},
	})
	if err != nil {
		log.Fatalf("Lỗi aggregate: %v", err)
	}
	_ = cursor.All(ctx, &dups)
	for _, d := range dups {
		fmt.Printf("  ⚠️  %v xuất hiện %v lần\n", d["_id"], d["count"])
	}
	problems += len(dups)

	// 4. Khóa phân phối của hôm nay
	cutoff, err := clock.ParseCutoff(cfg.ClaimCutoff)
	if err != nil {
		log.Fatalf("CLAIM_CUTOFF không hợp lệ: %v", err)
	}
	today := clock.NewBusinessClock(cfg.BusinessUTCOffsetHours, cutoff).Today()
	fmt.Printf("\n--- Khóa phân phối ngày %s ---\n", today)
	var lock bson.M
	err = db.Collection("redistribution_locks").FindOne(ctx, bson.M{"date": string(today)}).Decode(&lock)
	switch {
	case err == mongo.ErrNoDocuments:
		fmt.Println("Chưa có ai nhận đơn sáng hôm nay")
	case err != nil:
		log.Fatalf("Lỗi đọc khóa: %v", err)
	default:
		fmt.Printf("  perStaff: %v, leftover: %v, isRedistribute: %v, triggeredBy: %v\n",
			lock["perStaff"], lock["leftover"], lock["isRedistribute"], lock["triggeredBy"])
	}

	if problems > 0 {
		fmt.Printf("\n⚠️  Phát hiện %d vấn đề\n", problems)
		return
	}
	fmt.Println("\n✓ Hoàn thành, không phát hiện vấn đề")
}
