package main

import (
	"agrinet/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.FarmerModel{},
		model.DiseaseReportModel{},
		model.AlertModel{},
		model.NotificationModel{},
		model.PreferenceModel{},
		model.LocationPointModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
