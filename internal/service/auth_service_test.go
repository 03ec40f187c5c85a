package service

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMapCreateUserError(t *testing.T) {
	Convey("mapCreateUserError 映射用户插入错误", t, func() {
		Convey("唯一索引冲突映射为ErrUserAlreadyExists", func() {
			dup := mongo.WriteException{
				WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
			}
			So(errors.Is(mapCreateUserError(dup), ErrUserAlreadyExists), ShouldBeTrue)
		})

		Convey("批量写入的唯一索引冲突同样映射", func() {
			dup := mongo.BulkWriteException{
				WriteErrors: []mongo.BulkWriteError{
					{WriteError: mongo.WriteError{Code: 11000, Message: "E11000 duplicate key error"}},
				},
			}
			So(errors.Is(mapCreateUserError(dup), ErrUserAlreadyExists), ShouldBeTrue)
		})

		Convey("其他错误映射为通用创建失败", func() {
			err := mapCreateUserError(errors.New("connection reset"))
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrUserAlreadyExists), ShouldBeFalse)
			So(err.Error(), ShouldEqual, "创建用户失败")
		})
	})
}
