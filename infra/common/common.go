package common

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// imageSources are the paths under the repo root that end up in the API
// image. Changes elsewhere do not trigger a rebuild.
var imageSources = []string{"go.mod", "go.sum", "cmd", "internal", "pkg"}

// GenerateImageHash hashes the image sources below root.
func GenerateImageHash(root string) (string, error) {
	var hash string
	for _, src := range imageSources {
		path := filepath.Join(root, src)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		h, err := GenerateHash(path)
		if err != nil {
			return "", err
		}
		hash = AppendHash(hash, h)
	}
	return hash, nil
}

func GenerateHash(path string) (string, error) {
	var hash string

	err := filepath.Walk(path,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !info.IsDir() && info.Mode()&os.ModeSymlink != os.ModeSymlink {
				fh, err := GetFileMd5Hash(path)
				if err != nil {
					return err
				}
				hash = AppendHash(hash, fh)
			}

			return nil
		})

	return hash, err
}

func GetFileMd5Hash(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}

	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func AppendHash(hash1, hash2 string) string {
	h := md5.New()
	io.WriteString(h, hash1+hash2)

	return fmt.Sprintf("%x", h.Sum(nil))
}
