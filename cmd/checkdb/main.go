package main

import (
	"context"
	"fmt"
	"time"

	"formbuilder/internal/app/dsn"
	"formbuilder/internal/app/repository"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Печатает содержимое разделов и спецификаций в консоль
func main() {
	_ = godotenv.Load()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		logrus.Fatal("DSN string is empty. Check your .env file")
	}

	repo, err := repository.New(dsnStr)
	if err != nil {
		logrus.Fatal("Failed to connect to database: ", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sections, err := repo.ListSectionsWithSpecifications(ctx, nil)
	if err != nil {
		logrus.Fatal("Failed to get sections: ", err)
	}

	fmt.Println("Sections in database:")
	for _, section := range sections {
		fmt.Printf("ID: %d, Name: %s, Specifications: %d\n", section.ID, section.Name, len(section.Specifications))
		for _, spec := range section.Specifications {
			fmt.Printf("    ID: %d, Name: %s, Price: %.2f\n", spec.ID, spec.Name, spec.Price)
		}
	}
}
