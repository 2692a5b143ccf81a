package product

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"lumera_back_end/internal/database"
	"lumera_back_end/internal/services"
)

// POST /api/images/upload (admin)
func UploadProductImage(c *gin.Context) {
	ctx := context.Background()

	_, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier manquant"})
		return
	}

	// Nom d'objet unique pour éviter les collisions
	ext := filepath.Ext(header.Filename)
	objectName := fmt.Sprintf("products/%d%s", time.Now().UnixNano(), ext)

	imageURL, err := services.UploadFile(ctx, os.Getenv("MINIO_BUCKET"), objectName, header)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload MinIO: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Image uploadée avec succès",
		"image_url": imageURL,
	})
}

// POST /api/products/images/attach (admin)
func AddImageToProduct(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		ImageURL  string `json:"image_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	productUUID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var existingURLs []string
	err = session.Query("SELECT image_urls FROM products WHERE product_id = ?", gocql.UUID(productUUID)).Scan(&existingURLs)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	existingURLs = append(existingURLs, req.ImageURL)

	if err := session.Query("UPDATE products SET image_urls = ? WHERE product_id = ?", existingURLs, gocql.UUID(productUUID)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Image ajoutée au produit",
		"product_id": req.ProductID,
		"image_url":  req.ImageURL,
	})
}

// GET /api/products/:id/images
func GetProductImages(c *gin.Context) {
	productID := c.Param("id")

	productUUID, err := uuid.Parse(productID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var imageURLs []string
	if err := session.Query("SELECT image_urls FROM products WHERE product_id = ?", gocql.UUID(productUUID)).Scan(&imageURLs); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	// URLs signées valides 24h
	ctx := context.Background()
	signedURLs := []string{}
	for _, relativeURL := range imageURLs {
		if relativeURL == "" {
			continue
		}
		key := strings.TrimPrefix(relativeURL, "/uploads/")
		if signed, err := services.GenerateSignedURL(ctx, key, 24*time.Hour); err == nil {
			signedURLs = append(signedURLs, signed)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id": productID,
		"images":     signedURLs,
	})
}

// DELETE /api/products/images (admin)
func DeleteProductImage(c *gin.Context) {
	ctx := context.Background()

	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		ImageURL  string `json:"image_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	productUUID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	key := strings.TrimPrefix(req.ImageURL, "/uploads/")

	if err := database.MinIO.RemoveObject(ctx, os.Getenv("MINIO_BUCKET"), key, minio.RemoveObjectOptions{}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression MinIO: " + err.Error()})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var currentURLs []string
	if err := session.Query("SELECT image_urls FROM products WHERE product_id = ?", gocql.UUID(productUUID)).Scan(&currentURLs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération produit"})
		return
	}

	filteredURLs := []string{}
	for _, url := range currentURLs {
		if url != req.ImageURL {
			filteredURLs = append(filteredURLs, url)
		}
	}

	if err := session.Query("UPDATE products SET image_urls = ? WHERE product_id = ?", filteredURLs, gocql.UUID(productUUID)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Image supprimée avec succès",
		"product_id": req.ProductID,
		"image_url":  req.ImageURL,
	})
}
