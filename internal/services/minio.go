package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"strings"
	"time"

	"lumera_back_end/internal/database"

	"github.com/minio/minio-go/v7"
)

// UploadFile envoie un fichier multipart dans le bucket sous le nom
// d'objet donné et retourne le chemin public servi au front
func UploadFile(ctx context.Context, bucket, objectName string, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	_, err = database.MinIO.PutObject(ctx, bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("/uploads/%s", objectName), nil
}

// GenerateSignedURL génère une URL signée avec expiration pour un objet
func GenerateSignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	bucket := os.Getenv("MINIO_BUCKET")
	reqParams := make(url.Values)

	// Ne garde que le chemin relatif au bucket si on reçoit l'URL complète
	key := objectPath
	if idx := strings.Index(objectPath, "/"+bucket+"/"); idx != -1 {
		key = objectPath[idx+len(bucket)+2:]
	}

	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket, key, duration, reqParams)
	if err != nil {
		return "", err
	}

	return presignedURL.String(), nil
}
