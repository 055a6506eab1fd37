package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"apartments/internal/config"
	"apartments/internal/database"
	"apartments/internal/domain"
	"apartments/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type amenitySeed struct {
	name, icon, category string
}

var amenitySeeds = []amenitySeed{
	{"Swimming Pool", "fa-swimming-pool", domain.AmenityCategoryBuilding},
	{"Fitness Gym", "fa-dumbbell", domain.AmenityCategoryBuilding},
	{"Rooftop Terrace", "fa-building", domain.AmenityCategoryBuilding},
	{"24/7 Security", "fa-shield-alt", domain.AmenityCategoryBuilding},
	{"Concierge Service", "fa-concierge-bell", domain.AmenityCategoryBuilding},
	{"Underground Parking", "fa-parking", domain.AmenityCategoryBuilding},
	{"Elevator", "fa-elevator", domain.AmenityCategoryBuilding},

	{"High-Speed WiFi", "fa-wifi", domain.AmenityCategoryApartment},
	{"Air Conditioning", "fa-snowflake", domain.AmenityCategoryApartment},
	{"Heating System", "fa-fire", domain.AmenityCategoryApartment},
	{"Smart Home System", "fa-home", domain.AmenityCategoryApartment},
	{"Washer & Dryer", "fa-tshirt", domain.AmenityCategoryApartment},
	{"Dishwasher", "fa-utensils", domain.AmenityCategoryApartment},
	{"Balcony", "fa-tree", domain.AmenityCategoryApartment},

	{"Near Metro Station", "fa-subway", domain.AmenityCategoryArea},
	{"Shopping District", "fa-shopping-bag", domain.AmenityCategoryArea},
	{"Parks Nearby", "fa-tree", domain.AmenityCategoryArea},
	{"Restaurants & Cafes", "fa-coffee", domain.AmenityCategoryArea},
}

type apartmentSeed struct {
	apartment domain.Apartment
	amenities int
	features  [][2]string
}

var apartmentSeeds = []apartmentSeed{
	{
		apartment: domain.Apartment{
			Title:       "Luxury Downtown Penthouse",
			Description: "Experience unparalleled luxury in this stunning penthouse apartment. Floor-to-ceiling windows offer breathtaking panoramic city views. The open-concept living space features high-end finishes, a gourmet kitchen with premium appliances, and a spacious master suite.",
			Price:       3500, Bedrooms: 3, Bathrooms: 2, AreaSqm: 150, Floor: 12,
		},
		amenities: 10,
		features: [][2]string{
			{"View Type", "Panoramic City Skyline"},
			{"Balcony Size", "25 sqm"},
			{"Ceiling Height", "3.5 meters"},
			{"Smart Home", "Full Integration"},
			{"Parking Spaces", "2 Underground"},
		},
	},
	{
		apartment: domain.Apartment{
			Title:       "Elegant City Studio",
			Description: "Perfectly designed studio apartment in the heart of the city. This modern space maximizes efficiency without sacrificing style. Features a sleek kitchenette, contemporary bathroom, and clever storage solutions.",
			Price:       1200, Bedrooms: 1, Bathrooms: 1, AreaSqm: 45, Floor: 3,
		},
		amenities: 6,
		features: [][2]string{
			{"View Type", "City Street"},
			{"Storage", "Built-in Closet"},
			{"Internet Speed", "1 Gbps Fiber"},
		},
	},
	{
		apartment: domain.Apartment{
			Title:       "Spacious Family Residence",
			Description: "A generous apartment with ample space for growing families. Comfortable bedrooms, two full bathrooms and a large living area. The modern kitchen and dining area are ideal for family gatherings.",
			Price:       2800, Bedrooms: 4, Bathrooms: 2, AreaSqm: 130, Floor: 5,
		},
		amenities: 9,
		features: [][2]string{
			{"View Type", "Park and Garden"},
			{"Storage Room", "5 sqm"},
			{"Balcony Size", "15 sqm"},
			{"Child Safety", "Window Locks Installed"},
		},
	},
	{
		apartment: domain.Apartment{
			Title:       "Industrial Chic Loft",
			Description: "Loft-style apartment with soaring ceilings and exposed brick walls. This converted warehouse space combines industrial charm with modern comfort. Open layout with a mezzanine bedroom and a creative workspace.",
			Price:       2200, Bedrooms: 2, Bathrooms: 1, AreaSqm: 95, Floor: 2,
		},
		amenities: 7,
		features: [][2]string{
			{"Ceiling Height", "4.2 meters"},
			{"Style", "Exposed Brick & Beams"},
			{"Workspace", "Creative Studio Area"},
			{"Natural Light", "Skylight Windows"},
		},
	},
	{
		apartment: domain.Apartment{
			Title:       "Serene Garden View Residence",
			Description: "Escape to tranquility in this ground-floor apartment. Private garden access and large windows bring nature inside. Two bedrooms with garden views, a modern kitchen and a spacious living room.",
			Price:       2500, Bedrooms: 2, Bathrooms: 2, AreaSqm: 110, Floor: 0,
		},
		amenities: 8,
		features: [][2]string{
			{"Garden Access", "Private 30 sqm Garden"},
			{"View Type", "Landscaped Garden"},
			{"Pet Friendly", "Yes - Garden Access"},
			{"Outdoor Seating", "Patio Included"},
		},
	},
	{
		apartment: domain.Apartment{
			Title:       "Executive Business Suite",
			Description: "Premium apartment designed for discerning executives. A home office, formal dining room and luxurious master bedroom. Smart home technology and a private study complete the professional living space.",
			Price:       3200, Bedrooms: 3, Bathrooms: 2, AreaSqm: 140, Floor: 8,
		},
		amenities: 11,
		features: [][2]string{
			{"Home Office", "Dedicated 12 sqm Room"},
			{"View Type", "River and Bridge"},
			{"Wine Storage", "Climate-Controlled"},
			{"Smart Home", "Voice Controlled"},
			{"Parking Spaces", "2 Reserved Spots"},
		},
	},
}

func main() {
	_ = godotenv.Load()

	var reset bool
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Fill the database with sample amenities and apartments",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(reset)
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "drop and recreate every table first")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "apartments-seed")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, database.Options{Log: log})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if reset {
		log.Info("resetting schema")
		err = database.Reset(db)
	} else {
		err = database.Migrate(db)
	}
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		amenities, err := seedAmenities(tx)
		if err != nil {
			return err
		}
		log.Info("amenities seeded", zap.Int("count", len(amenities)))

		rng := rand.New(rand.NewSource(42))
		for _, s := range apartmentSeeds {
			apt, err := seedApartment(tx, s, amenities, rng)
			if err != nil {
				return fmt.Errorf("seed %q: %w", s.apartment.Title, err)
			}
			log.Info("apartment seeded", zap.Int64("apartment_id", apt.ID), zap.String("title", apt.Title))
		}
		return nil
	})
}

// seedAmenities creates missing amenities and returns all of them.
func seedAmenities(tx *gorm.DB) ([]domain.Amenity, error) {
	for _, s := range amenitySeeds {
		icon := s.icon
		a := domain.Amenity{Name: s.name, Icon: &icon, Category: s.category}
		if err := tx.Where(domain.Amenity{Name: s.name}).FirstOrCreate(&a).Error; err != nil {
			return nil, err
		}
	}
	var all []domain.Amenity
	err := tx.Order("id").Find(&all).Error
	return all, err
}

func seedApartment(tx *gorm.DB, s apartmentSeed, amenities []domain.Amenity, rng *rand.Rand) (*domain.Apartment, error) {
	var existing domain.Apartment
	err := tx.Where("title = ?", s.apartment.Title).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	apt := s.apartment
	apt.Status = domain.StatusAvailable
	if err := tx.Omit("Images", "Features", "Amenities").Create(&apt).Error; err != nil {
		return nil, err
	}

	n := s.amenities
	if n > len(amenities) {
		n = len(amenities)
	}
	for _, i := range rng.Perm(len(amenities))[:n] {
		link := domain.ApartmentAmenity{ApartmentID: apt.ID, AmenityID: amenities[i].ID}
		if err := tx.Create(&link).Error; err != nil {
			return nil, err
		}
	}

	for _, f := range s.features {
		if err := tx.Create(&domain.Feature{ApartmentID: apt.ID, Name: f[0], Value: f[1]}).Error; err != nil {
			return nil, err
		}
	}

	count := 4 + rng.Intn(2)
	for i := 0; i < count; i++ {
		img := domain.Image{
			ApartmentID: apt.ID,
			URL:         fmt.Sprintf("https://via.placeholder.com/800x600/4A90E2/ffffff?text=%s+Image+%d", strings.ReplaceAll(apt.Title, " ", "+"), i+1),
			AltText:     fmt.Sprintf("%s - Image %d", apt.Title, i+1),
			Width:       800,
			Height:      600,
			Format:      "png",
			Order:       i,
			IsPrimary:   i == 0,
		}
		if err := tx.Create(&img).Error; err != nil {
			return nil, err
		}
	}
	return &apt, nil
}
