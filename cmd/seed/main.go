package main

import (
	"context"
	"log"
	"os"
	"time"

	"marketingai-backend/internal/auth"
	"marketingai-backend/internal/config"
	"marketingai-backend/internal/contact"
	"marketingai-backend/internal/db"
	"marketingai-backend/internal/user"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	if err := seedContactInfo(ctx, cols); err != nil {
		log.Fatalf("seed contact info error: %v", err)
	}

	adminEmail := envOrDefault("ADMIN_EMAIL", "")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("seed admin: ADMIN_EMAIL or ADMIN_PASSWORD missing, skipping")
	} else if err := seedAdminUser(ctx, cols, adminEmail, adminPassword); err != nil {
		log.Fatalf("seed admin error: %v", err)
	}

	log.Println("seed completed")
}

// seedContactInfo upserts the single active contact card the public site
// reads from. Existing values are left alone.
func seedContactInfo(ctx context.Context, cols *db.Collections) error {
	now := time.Now().UTC()
	info := contact.Info{
		ContactDetails: contact.ContactDetails{
			Email: envOrDefault("CONTACT_EMAIL", "hello@marketingai.example"),
			Phone: envOrDefault("CONTACT_PHONE", "+15550100200"),
			Address: contact.Address{
				Street:  envOrDefault("CONTACT_STREET", "100 Market Street"),
				City:    envOrDefault("CONTACT_CITY", "New York"),
				State:   envOrDefault("CONTACT_STATE", "NY"),
				Country: envOrDefault("CONTACT_COUNTRY", "USA"),
			},
		},
		Operations: contact.Operations{
			BusinessHours: envOrDefault("CONTACT_HOURS", "Mon-Fri: 9AM-6PM EST"),
			Timezone:      envOrDefault("CONTACT_TZ", "America/New_York"),
		},
		IsActive: true,
	}

	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":            primitive.NewObjectID().Hex(),
			"contactDetails": info.ContactDetails,
			"operations":     info.Operations,
			"isActive":       true,
			"updatedAt":      now,
		},
	}
	_, err := cols.ContactInfo.UpdateOne(ctx, bson.M{"isActive": true}, update, options.Update().SetUpsert(true))
	return err
}

func seedAdminUser(ctx context.Context, cols *db.Collections, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"auth.password":         hash,
			"auth.emailVerified":    true,
			"personalInfo.userType": user.TypeAdmin,
			"metadata.updatedAt":    now,
		},
		"$setOnInsert": bson.M{
			"_id":                            primitive.NewObjectID().Hex(),
			"personalInfo.firstName":         envOrDefault("ADMIN_FIRST_NAME", "Platform"),
			"personalInfo.lastName":          envOrDefault("ADMIN_LAST_NAME", "Admin"),
			"personalInfo.displayName":       envOrDefault("ADMIN_DISPLAY_NAME", "Platform Admin"),
			"personalInfo.preferredLanguage": "en",
			"auth.email":                     email,
			"billing.plan":                   "free",
			"billing.billingCycle":           "monthly",
			"metadata.createdAt":             now,
		},
	}
	_, err = cols.Users.UpdateOne(ctx, bson.M{"auth.email": email}, update, options.Update().SetUpsert(true))
	return err
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
