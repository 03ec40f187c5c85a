package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"docchat/internal/model/chat"
	"docchat/internal/pkg/id"
)

// ChatRepo 对话记录仓库
type ChatRepo struct {
	collection *mongo.Collection
}

// NewChatRepo 创建对话记录仓库
func NewChatRepo(db *mongo.Database) *ChatRepo {
	var c chat.Chat
	return &ChatRepo{
		collection: db.Collection(c.Collection()),
	}
}

// Create 写入一条对话记录
// ID 和 CreatedAt 在写入时生成
func (r *ChatRepo) Create(ctx context.Context, c *chat.Chat) error {
	if c.ID == "" {
		c.ID = id.New()
	}
	c.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, c)
	return err
}

// FindByID 根据 ID 查询
func (r *ChatRepo) FindByID(ctx context.Context, chatID string) (*chat.Chat, error) {
	var c chat.Chat
	err := r.collection.FindOne(ctx, bson.M{"_id": chatID}).Decode(&c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByUserID 分页查询用户的对话记录（created_at 倒序），同时返回总条数
func (r *ChatRepo) ListByUserID(ctx context.Context, userID string, limit, offset int64) ([]*chat.Chat, int64, error) {
	filter := bson.M{"user_id": userID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var chats []*chat.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, 0, err
	}

	return chats, total, nil
}

// FindByUserAndFilename 查询该用户包含指定附件文件名的最新记录
// 文件名在用户内不保证唯一，该查询取 created_at 最新的一条，属于尽力而为的便捷查找
func (r *ChatRepo) FindByUserAndFilename(ctx context.Context, userID, filename string) (*chat.Chat, error) {
	filter := bson.M{
		"user_id":              userID,
		"attachments.filename": filename,
	}

	opts := options.FindOne().
		SetSort(bson.D{bson.E{Key: "created_at", Value: -1}})

	var c chat.Chat
	err := r.collection.FindOne(ctx, filter, opts).Decode(&c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete 删除对话记录，返回是否删除了记录
func (r *ChatRepo) Delete(ctx context.Context, chatID string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": chatID})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}
