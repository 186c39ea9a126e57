package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amint/interview-hub/api/internal/config"
	mongodoc "github.com/amint/interview-hub/api/internal/infrastructure/mongo"
	"github.com/amint/interview-hub/api/internal/interview"
)

// デモ用の面接設定とグループを投入する開発向けコマンド。
func main() {
	var (
		tokenCount     = flag.Int("tokens", 3, "発行するデモ用トークン数")
		groupID        = flag.String("group", "demo-group", "トークンを所属させるグループID")
		restaurantName = flag.String("restaurant", "デモ店舗", "グループの店舗名")
	)
	flag.Parse()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	database := client.Database(cfg.MongoDatabase)
	configRepo := mongodoc.NewConfigRepository(database, cfg.ConfigCollection)
	groupRepo := mongodoc.NewGroupRepository(database, cfg.GroupCollection)

	demoConfig := interview.InterviewConfig{
		Objective: "店舗での勤務体験について、率直な感想と改善点を聞き出す",
		Tone:      "親しみやすく、落ち着いた口調",
		Questions: []string{
			"まず、この店舗で働き始めたきっかけを教えてください。",
			"勤務の中で一番良かったと感じた点は何ですか。",
			"逆に、改善してほしいと感じた点があれば教えてください。",
			"この店舗を友人に勧めるとしたら、何と伝えますか。",
		},
		AvatarID: "June_HR_public",
		VoiceID:  "f8c69e517f424cafaecde32dde57096b",
	}
	if err := demoConfig.Validate(); err != nil {
		log.Fatalf("デモ設定の検証に失敗しました: %v", err)
	}

	now := time.Now().UTC()
	tokens := make([]string, 0, *tokenCount)
	for i := 0; i < *tokenCount; i++ {
		token := uuid.NewString()
		meta := &interview.InterviewMeta{
			InterviewID:    token,
			GroupID:        *groupID,
			RestaurantName: *restaurantName,
			CreatedAt:      now,
		}
		if err := configRepo.Upsert(ctx, token, demoConfig, meta); err != nil {
			log.Fatalf("トークン %s の設定保存に失敗しました: %v", token, err)
		}
		tokens = append(tokens, token)
	}

	group, err := groupRepo.Merge(ctx, *groupID, *restaurantName, tokens)
	if err != nil {
		log.Fatalf("グループの保存に失敗しました: %v", err)
	}

	fmt.Printf("グループ %s に %d 件のトークンを投入しました。\n", group.GroupID, len(tokens))
	for _, token := range tokens {
		fmt.Printf("  %s/?token=%s\n", cfg.PublicClientURL, token)
	}
}
