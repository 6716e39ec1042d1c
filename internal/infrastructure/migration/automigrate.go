package migration

import (
	"github.com/fibrelink-inc/fibrelink/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.PlanModel{},
		&models.SubscriptionModel{},
		&models.BillingChangeModel{},
	}
}
