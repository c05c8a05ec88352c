package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"silkscan/internal/database"
	"silkscan/internal/domain/auth"
	"silkscan/internal/domain/upload"
)

// Seeds a demo farmer with a couple of classified uploads for local development.
func main() {
	db, err := database.Connect("silkscan.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(&auth.User{}, &upload.UploadRecord{}); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	farmer := &auth.User{
		Name:         "Demo Farmer",
		Email:        "farmer@example.com",
		Phone:        "+77010000001",
		PasswordHash: string(hash),
		Role:         auth.RoleFarmer,
	}
	if err := db.WithContext(ctx).Where(auth.User{Phone: farmer.Phone}).FirstOrCreate(farmer).Error; err != nil {
		log.Fatal("seed farmer failed:", err)
	}

	disease := "Grasserie"
	records := []upload.UploadRecord{
		{
			UserID:         farmer.ID,
			StoredFileName: "seed_healthy.jpg",
			StoragePath:    "./uploads/seed_healthy.jpg",
			OriginalName:   "batch1.jpg",
			MimeType:       "image/jpeg",
			SizeBytes:      48213,
			Label:          "healthy",
			Confidence:     0.93,
			Measures:       "[]",
			CreatedAt:      time.Now().Add(-48 * time.Hour),
		},
		{
			UserID:         farmer.ID,
			StoredFileName: "seed_diseased.jpg",
			StoragePath:    "./uploads/seed_diseased.jpg",
			OriginalName:   "batch2.jpg",
			MimeType:       "image/jpeg",
			SizeBytes:      51830,
			Label:          "diseased",
			Confidence:     0.81,
			Probabilities:  `{"healthy":0.19,"diseased":0.81}`,
			DiseaseName:    &disease,
			Measures:       `["Disinfect the rearing house and appliances before each rearing","Rear larvae from disease-free layings only"]`,
			CreatedAt:      time.Now().Add(-24 * time.Hour),
		},
	}

	for i := range records {
		if err := db.WithContext(ctx).
			Where(upload.UploadRecord{StoredFileName: records[i].StoredFileName}).
			FirstOrCreate(&records[i]).Error; err != nil {
			log.Fatal("seed upload record failed:", err)
		}
	}

	log.Printf("seeded farmer id=%d with %d upload records", farmer.ID, len(records))
}
