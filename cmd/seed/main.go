// Command seed loads demo users, pharmacies, medications and stock into the
// configured database and prints a bearer token for the demo customer.
//
// Catalog rows use fixed ids and are skipped when present. Inventory goes
// through the restock upsert, so running the seeder again adds stock.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"medifind/internal/client"
	"medifind/internal/config"
	"medifind/internal/logger"
	"medifind/internal/middleware"
	"medifind/internal/model"
	"medifind/internal/repository"
	"os"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const demoCustomerID = 100

func main() {
	randSeed := flag.Int64("rand-seed", 1, "seed for generated stock levels and store prices")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := client.InitDBClient(cfg.Database)
	if err != nil {
		log.Fatal("failed to init database", zap.Error(err))
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	medicationRepo := repository.NewMedicationRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)

	owners, stores := pharmacies()
	if err := userRepo.Seed(ctx, append(owners, demoCustomer())); err != nil {
		log.Fatal("seed users", zap.Error(err))
	}
	if err := storeRepo.Seed(ctx, stores); err != nil {
		log.Fatal("seed stores", zap.Error(err))
	}

	meds := medications()
	if err := medicationRepo.Seed(ctx, meds); err != nil {
		log.Fatal("seed medications", zap.Error(err))
	}

	rng := rand.New(rand.NewSource(*randSeed))
	records := 0
	for _, store := range stores {
		// at least three medications per store
		n := rng.Intn(len(meds)-3) + 3
		for _, i := range rng.Perm(len(meds))[:n] {
			med := meds[i]
			adjust := decimal.NewFromFloat(rng.Float64()*0.4 - 0.2)
			price := med.Price.Mul(decimal.NewFromInt(1).Add(adjust)).Round(2)

			err := inventoryRepo.Restock(ctx, nil, &model.StoreInventory{
				StoreID:      store.ID,
				MedicationID: med.ID,
				InStock:      true,
				Quantity:     int32(rng.Intn(100) + 10),
				Price:        decimal.NewNullDecimal(price),
			}, "price", "in_stock")
			if err != nil {
				log.Fatal("seed inventory", zap.Uint("storeId", store.ID), zap.Uint("medicationId", med.ID), zap.Error(err))
			}
			records++
		}
	}

	log.Info("seed completed",
		zap.Int("stores", len(stores)),
		zap.Int("medications", len(meds)),
		zap.Int("inventoryRecords", records),
	)

	token, err := middleware.IssueToken(cfg.Auth.Secret, demoCustomerID, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal("issue demo token", zap.Error(err))
	}
	fmt.Printf("demo customer token (user %d):\n%s\n", demoCustomerID, token)
	for _, o := range owners {
		t, err := middleware.IssueToken(cfg.Auth.Secret, o.ID, cfg.Auth.TokenTTL)
		if err != nil {
			log.Fatal("issue owner token", zap.Error(err))
		}
		fmt.Printf("owner %s (user %d):\n%s\n", o.Username, o.ID, t)
	}
}

func demoCustomer() *model.User {
	return &model.User{
		ID:        demoCustomerID,
		Username:  "demo_customer",
		FirstName: "Demo",
		LastName:  "Customer",
		Email:     "demo_customer@example.com",
		Address:   "10 Mall Road, Lahore",
	}
}

type pharmacy struct {
	prefix       string
	name         string
	address      string
	city         string
	zipCode      string
	phone        string
	openingHours string
	description  string
	imageURL     string
	rating       float64
	reviewCount  int32
}

var pharmacyList = []pharmacy{
	{"lahore_store_1", "MediCare Pharmacy", "123 Main Road", "Lahore", "54000", "042-12345678",
		"Monday-Saturday: 9am-9pm, Sunday: 10am-6pm",
		"A full-service pharmacy offering a wide range of medications and health products.",
		"https://i.ibb.co/HTT4Ljh/pharmacy1.jpg", 4.5, 120},
	{"lahore_store_2", "Health First Pharmacy", "45 Gulberg III", "Lahore", "54660", "042-87654321",
		"Open 24/7",
		"Your 24/7 health partner offering quality medications and healthcare advice.",
		"https://i.ibb.co/Br58mSP/pharmacy2.jpg", 4.7, 95},
	{"faisalabad_store_1", "City Pharmacy", "78 D-Ground", "Faisalabad", "38000", "041-12345678",
		"Monday-Saturday: 8am-10pm, Sunday: 9am-8pm",
		"Serving the community with quality medications and excellent service.",
		"https://i.ibb.co/PCcTsk8/pharmacy3.jpg", 4.3, 78},
	{"faisalabad_store_2", "Wellness Pharmacy", "23 Susan Road", "Faisalabad", "38040", "041-87654321",
		"Monday-Saturday: 9am-9pm, Sunday: 10am-6pm",
		"Your neighborhood pharmacy for all your health needs.",
		"https://i.ibb.co/DDkqJ7w/pharmacy4.jpg", 4.6, 62},
}

// pharmacies returns one owner account per store; owner and store share the id.
func pharmacies() ([]*model.User, []*model.Store) {
	owners := make([]*model.User, len(pharmacyList))
	stores := make([]*model.Store, len(pharmacyList))
	for i, p := range pharmacyList {
		id := uint(i + 1)
		rating := p.rating
		owners[i] = &model.User{
			ID:        id,
			Username:  p.prefix,
			FirstName: "Store",
			LastName:  fmt.Sprintf("Owner %d", id),
			Email:     p.prefix + "@example.com",
			Phone:     p.phone,
			Address:   p.address,
			IsStore:   true,
		}
		stores[i] = &model.Store{
			ID:           id,
			UserID:       id,
			Name:         p.name,
			Address:      p.address,
			City:         p.city,
			ZipCode:      p.zipCode,
			Phone:        p.phone,
			Email:        "info@" + strings.ToLower(strings.Join(strings.Fields(p.name), "")) + ".com",
			OpeningHours: p.openingHours,
			Description:  p.description,
			Rating:       &rating,
			ReviewCount:  p.reviewCount,
			ImageURL:     p.imageURL,
		}
	}
	return owners, stores
}

func medications() []*model.Medication {
	med := func(id uint, name, description, dosage, manufacturer, category, price, image, sideEffects, usage string) *model.Medication {
		return &model.Medication{
			ID:                id,
			Name:              name,
			Description:       description,
			Dosage:            dosage,
			Manufacturer:      manufacturer,
			Category:          category,
			Price:             decimal.RequireFromString(price),
			ImageURL:          image,
			SideEffects:       sideEffects,
			UsageInstructions: usage,
		}
	}

	return []*model.Medication{
		med(1, "Paracetamol", "A pain reliever and fever reducer", "500mg", "GSK", "Pain Relief", "5.99",
			"https://i.ibb.co/CVd2GY8/paracetamol.jpg", "Nausea, stomach pain, loss of appetite",
			"Take 1-2 tablets every 4-6 hours as needed"),
		med(2, "Amoxicillin", "Antibiotic used to treat bacterial infections", "250mg", "Pfizer", "Antibiotics", "12.99",
			"https://i.ibb.co/5FC7N1x/amoxicillin.jpg", "Diarrhea, stomach upset, vomiting",
			"Take 1 capsule every 8 hours with food"),
		med(3, "Cetirizine", "Antihistamine that reduces symptoms of allergies", "10mg", "Johnson & Johnson", "Allergy", "8.49",
			"https://i.ibb.co/2qPbZ0C/cetirizine.jpg", "Drowsiness, dry mouth, headache",
			"Take 1 tablet daily with or without food"),
		med(4, "Omeprazole", "Reduces stomach acid production", "20mg", "AstraZeneca", "Digestive Health", "14.99",
			"https://i.ibb.co/3hpkRNj/omeprazole.jpg", "Headache, abdominal pain, diarrhea",
			"Take 1 capsule daily before breakfast"),
		med(5, "Metformin", "Oral diabetes medicine that helps control blood sugar", "500mg", "Merck", "Diabetes", "9.99",
			"https://i.ibb.co/z8LF3Q7/metformin.jpg", "Nausea, vomiting, stomach upset, diarrhea",
			"Take 1-2 tablets with meals"),
		med(6, "Atorvastatin", "Lowers cholesterol and triglycerides in the blood", "10mg", "Pfizer", "Cardiovascular", "18.99",
			"https://i.ibb.co/2kP1YhP/atorvastatin.jpg", "Mild muscle pain, weakness, stomach upset",
			"Take 1 tablet daily in the evening"),
		med(7, "Ibuprofen", "NSAID used to reduce fever and treat pain or inflammation", "400mg", "Advil", "Pain Relief", "7.49",
			"https://i.ibb.co/XyDQXdz/ibuprofen.jpg", "Stomach pain, heartburn, dizziness",
			"Take 1-2 tablets every 4-6 hours with food"),
		med(8, "Loratadine", "Antihistamine that treats allergy symptoms", "10mg", "Claritin", "Allergy", "9.99",
			"https://i.ibb.co/zNdNJWt/loratadine.jpg", "Headache, dry mouth, fatigue",
			"Take 1 tablet daily with water"),
	}
}
