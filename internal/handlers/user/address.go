package user

import (
	"log"
	"net/http"

	"lumera_back_end/internal/database"
	"lumera_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

//
// --- HANDLERS ADRESSES ---
//

// GET /api/addresses/mine
func ListMyAddresses(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		log.Printf("❌ Erreur session ScyllaDB: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur connexion base de données"})
		return
	}

	results := []models.Address{}

	iter := session.Query("SELECT address_id, user_id, street, postal_code, city, country, is_default FROM addresses WHERE user_id = ? ALLOW FILTERING", userID).Iter()
	var a models.Address
	for iter.Scan(&a.ID, &a.UserID, &a.Street, &a.PostalCode, &a.City, &a.Country, &a.IsDefault) {
		results = append(results, a)
		a = models.Address{}
	}
	if err := iter.Close(); err != nil {
		log.Printf("⚠️ Erreur lecture adresses: %v", err)
	}

	c.JSON(http.StatusOK, results)
}

// POST /api/addresses
func CreateAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "non authentifié"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		log.Printf("❌ Erreur session ScyllaDB: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur connexion base de données"})
		return
	}

	var input models.Address
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}

	input.ID = gocql.TimeUUID()
	input.UserID = userID
	input.IsDefault = false

	err = session.Query(`INSERT INTO addresses (address_id, user_id, street, postal_code, city, country, is_default)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		input.ID, userID, input.Street, input.PostalCode, input.City, input.Country, false).Exec()
	if err != nil {
		log.Printf("❌ Erreur insertion adresse: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Impossible d'ajouter l'adresse"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Adresse créée",
		"address": input,
	})
}

// POST /api/addresses/:id/default
func MakeDefaultAddress(c *gin.Context) {
	idParam := c.Param("id")
	userID := c.GetString("user_id")

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur connexion base de données"})
		return
	}

	addressID, err := uuid.Parse(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID invalide"})
		return
	}
	addressUUID := gocql.UUID(addressID)

	var userIDDB string
	err = session.Query("SELECT user_id FROM addresses WHERE address_id = ?", addressUUID).Scan(&userIDDB)
	if err != nil || userIDDB != userID {
		c.JSON(http.StatusNotFound, gin.H{"message": "Adresse non trouvée"})
		return
	}

	// Désactive les autres adresses du user avant d'activer celle-ci
	iter := session.Query("SELECT address_id FROM addresses WHERE user_id = ? ALLOW FILTERING", userID).Iter()
	var otherID gocql.UUID
	for iter.Scan(&otherID) {
		if otherID != addressUUID {
			session.Query("UPDATE addresses SET is_default = ? WHERE address_id = ?", false, otherID).Exec()
		}
	}
	iter.Close()

	if err := session.Query("UPDATE addresses SET is_default = ? WHERE address_id = ?", true, addressUUID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Impossible de définir par défaut"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Adresse mise par défaut", "id": idParam})
}

// DELETE /api/addresses/:id
func DeleteAddress(c *gin.Context) {
	idParam := c.Param("id")
	userID := c.GetString("user_id")

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur connexion base de données"})
		return
	}

	addressID, err := uuid.Parse(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID invalide"})
		return
	}
	addressUUID := gocql.UUID(addressID)

	var userIDDB string
	err = session.Query("SELECT user_id FROM addresses WHERE address_id = ?", addressUUID).Scan(&userIDDB)
	if err != nil || userIDDB != userID {
		c.JSON(http.StatusNotFound, gin.H{"message": "Adresse non trouvée"})
		return
	}

	if err := session.Query("DELETE FROM addresses WHERE address_id = ?", addressUUID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Suppression impossible"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Adresse supprimée"})
}
