package database

import (
	"fmt"
	"log"

	"streamcrew_backend/internal/config"
	"streamcrew_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedDefaults(db)

	return db, nil
}

// Migrate 建表与结构同步
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Role{},
		&model.ChecklistType{},
		&model.Checklist{},
		&model.Section{},
		&model.ListItem{},
		&model.CrewMemberChecklist{},
		&model.ListItemProgress{},
		&model.ChecklistProgress{},
		&model.Course{},
		&model.Lesson{},
		&model.Enrollment{},
		&model.LessonProgress{},
		&model.Assessment{},
		&model.Question{},
		&model.Choice{},
		&model.Attempt{},
		&model.Answer{},
		&model.Review{},
		&model.AuditLog{},
	)
}

// seedDefaults 空库时写入常用岗位角色与检查单类型
func seedDefaults(db *gorm.DB) {
	var roleCount int64
	db.Model(&model.Role{}).Count(&roleCount)
	if roleCount == 0 {
		defaultRoles := []model.Role{
			{Name: "DIRECTOR", Description: "导播，负责整场直播的画面调度"},
			{Name: "CAMERA", Description: "摄像，负责机位架设与跟拍"},
			{Name: "AUDIO", Description: "音频，负责调音台与收声设备"},
			{Name: "GRAPHICS", Description: "图文包装，负责字幕与场景切换素材"},
			{Name: "STREAM_TECH", Description: "推流技术，负责编码器与网络链路"},
		}
		for _, r := range defaultRoles {
			db.Create(&r)
		}
	}

	var typeCount int64
	db.Model(&model.ChecklistType{}).Count(&typeCount)
	if typeCount == 0 {
		defaultTypes := []model.ChecklistType{
			{Name: "Live Event", Description: "现场活动直播"},
			{Name: "Studio Show", Description: "演播室节目"},
			{Name: "Remote Production", Description: "远程制作"},
		}
		for _, t := range defaultTypes {
			db.Create(&t)
		}
	}
}
