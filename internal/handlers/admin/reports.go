package admin

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lumera_back_end/internal/models"
	"lumera_back_end/internal/services"
)

// Les rapports sont calculés en mémoire sur la table orders.
// ScyllaDB n'a pas d'agrégations : pour de gros volumes il faudrait
// des tables matérialisées alimentées par un job batch.

// GET /api/admin/reports/revenue?days=30
// Chiffre d'affaires par jour sur la période demandée
func RevenueTrend(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days < 1 || days > 365 {
		days = 30
	}

	orders, err := services.ListAllOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	since := time.Now().AddDate(0, 0, -days)
	byDay := make(map[string]float64)
	countByDay := make(map[string]int)

	for _, o := range orders {
		if o.CreatedAt.Before(since) || o.Status == models.OrderStatusCancelled {
			continue
		}
		day := o.CreatedAt.Format("2006-01-02")
		byDay[day] += o.TotalPrice
		countByDay[day]++
	}

	type dayRevenue struct {
		Date    string  `json:"date"`
		Revenue float64 `json:"revenue"`
		Orders  int     `json:"orders"`
	}

	trend := make([]dayRevenue, 0, len(byDay))
	totalRevenue := 0.0
	for day, revenue := range byDay {
		trend = append(trend, dayRevenue{Date: day, Revenue: revenue, Orders: countByDay[day]})
		totalRevenue += revenue
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date < trend[j].Date })

	c.JSON(http.StatusOK, gin.H{
		"days":          days,
		"trend":         trend,
		"total_revenue": totalRevenue,
	})
}

// GET /api/admin/reports/status
// Répartition des commandes par statut
func StatusDistribution(c *gin.Context) {
	orders, err := services.ListAllOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	distribution := map[string]int{
		models.OrderStatusPending:   0,
		models.OrderStatusPaid:      0,
		models.OrderStatusShipped:   0,
		models.OrderStatusDelivered: 0,
		models.OrderStatusCancelled: 0,
	}
	for _, o := range orders {
		distribution[o.Status]++
	}

	c.JSON(http.StatusOK, gin.H{
		"distribution": distribution,
		"total":        len(orders),
	})
}

// GET /api/admin/reports/categories?days=30
// Ventes par catégorie : chaque ligne de commande est rattachée à la
// catégorie courante de son produit
func CategorySales(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days < 1 || days > 365 {
		days = 30
	}

	ctx := c.Request.Context()

	orders, err := services.ListAllOrders(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	since := time.Now().AddDate(0, 0, -days)
	categoryByProduct := make(map[string]string)

	type categorySale struct {
		CategoryID string  `json:"category_id"`
		Quantity   int     `json:"quantity"`
		Revenue    float64 `json:"revenue"`
	}
	sales := make(map[string]*categorySale)

	for _, o := range orders {
		if o.CreatedAt.Before(since) || o.Status == models.OrderStatusCancelled {
			continue
		}
		for _, item := range o.Items {
			categoryID, ok := categoryByProduct[item.ProductID]
			if !ok {
				p, err := services.GetProductByID(ctx, item.ProductID)
				if err != nil {
					// Produit supprimé depuis : la vente est ignorée
					categoryByProduct[item.ProductID] = ""
					continue
				}
				categoryID = p.CategoryID.String()
				categoryByProduct[item.ProductID] = categoryID
			}
			if categoryID == "" {
				continue
			}

			s, ok := sales[categoryID]
			if !ok {
				s = &categorySale{CategoryID: categoryID}
				sales[categoryID] = s
			}
			s.Quantity += item.Quantity
			s.Revenue += item.Price * float64(item.Quantity)
		}
	}

	result := make([]categorySale, 0, len(sales))
	for _, s := range sales {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Revenue > result[j].Revenue })

	c.JSON(http.StatusOK, gin.H{
		"days":       days,
		"categories": result,
	})
}
