package seeds

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/BridgeWatch/BW-Backend/internal/db"
	"github.com/BridgeWatch/BW-Backend/internal/inspection"
	"github.com/goccy/go-yaml"
)

type fixtureFile struct {
	Bridges []bridgeFixture `yaml:"bridges"`
}

type bridgeFixture struct {
	Name           string               `yaml:"name"`
	ChainageKM     string               `yaml:"chainage_km"`
	Direction      string               `yaml:"direction"`
	InspectionDate string               `yaml:"inspection_date"`
	StructureType  string               `yaml:"structure_type"`
	StructureNo    string               `yaml:"structure_no"`
	Rating         string               `yaml:"rating"`
	Latitude       *float64             `yaml:"latitude"`
	Longitude      *float64             `yaml:"longitude"`
	ChainageFrom   string               `yaml:"chainage_from"`
	ChainageTo     string               `yaml:"chainage_to"`
	Observations   []observationFixture `yaml:"observations"`
}

type observationFixture struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Severity    string         `yaml:"severity"`
	Side        string         `yaml:"side"`
	Images      []imageFixture `yaml:"images"`
}

type imageFixture struct {
	ImagePath string   `yaml:"image_path"`
	Caption   string   `yaml:"caption"`
	ImageType string   `yaml:"image_type"`
	Side      string   `yaml:"side"`
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
}

// SeedAll loads the YAML fixture file and populates the default
// project through the regular store write path. Reruns are harmless:
// seeding is skipped when the project already has bridges.
func SeedAll(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture file: %w", err)
	}

	var f fixtureFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse fixture file: %w", err)
	}

	project, err := inspection.EnsureDefaultProject(ctx)
	if err != nil {
		return fmt.Errorf("ensure default project: %w", err)
	}

	var existing int64
	if err := db.DB.WithContext(ctx).Model(&inspection.Bridge{}).Where("project_id = ?", project.ID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		fmt.Println("Seed skipped: project already has bridges")
		return nil
	}

	for _, bf := range f.Bridges {
		bridge := inspection.Bridge{
			ProjectID:     project.ID,
			Name:          bf.Name,
			ChainageKM:    bf.ChainageKM,
			Direction:     bf.Direction,
			StructureType: bf.StructureType,
			StructureNo:   bf.StructureNo,
			Rating:        bf.Rating,
			Latitude:      bf.Latitude,
			Longitude:     bf.Longitude,
			ChainageFrom:  bf.ChainageFrom,
			ChainageTo:    bf.ChainageTo,
		}
		if bf.InspectionDate != "" {
			date, err := time.Parse("2006-01-02", bf.InspectionDate)
			if err != nil {
				return fmt.Errorf("bridge %q: bad inspection_date: %w", bf.Name, err)
			}
			bridge.InspectionDate = date
		}
		if err := inspection.CreateBridge(ctx, &bridge); err != nil {
			return fmt.Errorf("seed bridge %q: %w", bf.Name, err)
		}

		for _, of := range bf.Observations {
			obs := inspection.Observation{
				BridgeID:    bridge.ID,
				Title:       of.Title,
				Description: of.Description,
				Severity:    of.Severity,
				Side:        of.Side,
			}
			if err := inspection.CreateObservation(ctx, &obs); err != nil {
				return fmt.Errorf("seed observation %q: %w", of.Title, err)
			}

			for _, imf := range of.Images {
				img := inspection.ObservationImage{
					ObservationID: obs.ID,
					ImagePath:     imf.ImagePath,
					Caption:       imf.Caption,
					ImageType:     imf.ImageType,
					Side:          imf.Side,
					Latitude:      imf.Latitude,
					Longitude:     imf.Longitude,
				}
				if err := inspection.CreateObservationImage(ctx, &img); err != nil {
					return fmt.Errorf("seed image %q: %w", imf.ImagePath, err)
				}
			}
		}
	}

	return nil
}
