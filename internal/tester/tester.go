package tester

import (
	"fmt"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/platoro/foodgram/internal/blob"
	"github.com/platoro/foodgram/internal/config"
	"github.com/platoro/foodgram/internal/model"
)

// test packages run as separate processes, each gets its own directory
var testPath = fmt.Sprintf("../../.test/%d/", os.Getpid())

var (
	db *gorm.DB
)

func Setup() {
	RemoveDBFile()

	_ = os.Setenv("ENV", "test")

	err := os.MkdirAll(testPath+"/db", os.ModePerm)
	if err != nil {
		panic(err)
	}

	db, err = gorm.Open(sqlite.Open(testPath+"db/foodgram.db"), &gorm.Config{TranslateError: true})
	if err != nil {
		panic(err)
	}

	err = model.Migrate(db)
	if err != nil {
		panic(err)
	}
}

func TestDB() *gorm.DB {
	return db
}

func RemoveDBFile() {
	err := os.RemoveAll(testPath)
	if err != nil {
		panic(err)
	}
}

// Config returns the bounds and secrets tests run with.
func Config() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret",
		UploadDir:      testPath + "uploads",
		CookingTimeMin: 1,
		CookingTimeMax: 1440,
		AmountMin:      1,
		AmountMax:      10000,
	}
}

// Blobs returns a file storage rooted in the test directory.
func Blobs() blob.Storage {
	storage, err := blob.NewFileStorage(testPath+"uploads", "/uploads")
	if err != nil {
		panic(err)
	}
	return storage
}
