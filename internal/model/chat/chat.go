package chat

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Chat 对话记录实体
// 一条记录对应一次完整的问答交换（用户消息 + 生成的应答）。
// 记录一经写入不再修改，只支持整条删除。
// user_id 是调用方提供的不透明分区键，本模块不校验其是否对应注册用户。
type Chat struct {
	ID          string       `bson:"_id,omitempty" json:"id"`        // UUID格式的ID
	UserID      string       `bson:"user_id" json:"userId"`          // 所属用户ID（分区键，不校验）
	Message     string       `bson:"message" json:"message"`         // 用户消息（仅附件时为占位文本）
	Response    string       `bson:"response" json:"response"`       // 应答文本
	Attachments []Attachment `bson:"attachments" json:"attachments"` // 附件列表（保持提交顺序）
	CreatedAt   time.Time    `bson:"created_at" json:"timestamp"`    // 写入时间，历史查询的唯一排序键
}

// Attachment 附件元数据
// 仅弱引用对象存储中的文件：storage_key + 缓存的URL。
// 文件字节由对象存储持有，记录删除时尽力清理对应对象。
type Attachment struct {
	Filename    string    `bson:"filename" json:"filename"`        // 原始文件名（用户内不保证唯一）
	StorageKey  string    `bson:"storage_key" json:"storageKey"`   // 存储路径（key）
	StorageURL  string    `bson:"storage_url" json:"storageUrl"`   // 上传时返回的访问URL
	ContentType string    `bson:"content_type" json:"contentType"` // MIME类型
	UploadedAt  time.Time `bson:"uploaded_at" json:"uploadedAt"`   // 上传时间
}

// Collection 返回集合名称
func (c *Chat) Collection() string {
	return "chats"
}

// EnsureIndexes 创建和维护索引
func (c *Chat) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(c.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "user_id", Value: 1}, bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_created"),
		},
		{
			Keys:    bson.D{bson.E{Key: "user_id", Value: 1}, bson.E{Key: "attachments.filename", Value: 1}},
			Options: options.Index().SetName("idx_user_attachment_filename"),
		},
	}

	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
