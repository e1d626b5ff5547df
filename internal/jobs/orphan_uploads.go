package jobs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/platoro/foodgram/internal/model"
)

// uploads younger than this are left alone, they may belong to an in-flight
// recipe create
const orphanMinAge = 24 * time.Hour

// OrphanUploadCleaner removes uploaded image files that no recipe or user
// avatar references anymore.
type OrphanUploadCleaner struct {
	db  *gorm.DB
	dir string
}

func NewOrphanUploadCleaner(db *gorm.DB, dir string) *OrphanUploadCleaner {
	return &OrphanUploadCleaner{db: db, dir: dir}
}

func (o *OrphanUploadCleaner) Schedule() string {
	return "@daily"
}

func (o *OrphanUploadCleaner) Run() {
	referenced, err := o.referencedFiles()
	if err != nil {
		logrus.Errorf("orphan upload cleaner: %v", err)
		return
	}

	entries, err := os.ReadDir(o.dir)
	if err != nil {
		logrus.Errorf("orphan upload cleaner: %v", err)
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}

		info, err := entry.Info()
		if err != nil || time.Since(info.ModTime()) < orphanMinAge {
			continue
		}

		if err := os.Remove(filepath.Join(o.dir, entry.Name())); err != nil {
			logrus.Warnf("orphan upload cleaner: remove %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}

	if removed > 0 {
		logrus.Infof("orphan upload cleaner removed %d files", removed)
	}
}

func (o *OrphanUploadCleaner) referencedFiles() (map[string]struct{}, error) {
	var imageURLs []string
	if err := o.db.Model(&model.Recipe{}).Pluck("image_url", &imageURLs).Error; err != nil {
		return nil, err
	}

	var avatarURLs []string
	if err := o.db.Model(&model.User{}).Pluck("avatar_url", &avatarURLs).Error; err != nil {
		return nil, err
	}

	referenced := make(map[string]struct{}, len(imageURLs)+len(avatarURLs))
	for _, url := range append(imageURLs, avatarURLs...) {
		if url != "" {
			referenced[filepath.Base(url)] = struct{}{}
		}
	}
	return referenced, nil
}
