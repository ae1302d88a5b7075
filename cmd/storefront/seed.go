package main

import (
	"github.com/shanedle/cipher-cart/internal/catalog/domain"
	"github.com/shanedle/cipher-cart/internal/catalog/infra/memory"
	"github.com/shanedle/cipher-cart/pkg/pricing"
)

func stock(n int) *int { return &n }

// seedCatalog fills the in-memory content store for local runs.
func seedCatalog(store *memory.ContentStore) {
	store.Seed(
		[]domain.Category{
			{ID: "cat-tech-nostalgia", Title: "Tech Nostalgia", Slug: "tech-nostalgia", Description: "Hardware from the analog-to-digital years."},
			{ID: "cat-crypto", Title: "Cryptography Collectibles", Slug: "cryptography-collectibles", Description: "Ciphers you can hold."},
			{ID: "cat-future-home", Title: "Future-Tech Home", Slug: "future-tech-home"},
			{ID: "cat-encrypted-life", Title: "Encrypted Lifestyle", Slug: "encrypted-lifestyle"},
			{ID: "cat-security", Title: "Digital Security Essentials", Slug: "digital-security-essentials"},
		},
		[]domain.Product{
			{
				ID: "walkman-wm2", Name: "Walkman WM-2", Slug: "walkman-wm2",
				Intro: "Portable cassette player", Description: "Restored 1981 cassette player with belt drive.",
				Price: 180, Discount: pricing.Percent(10), Stock: stock(4), Status: domain.StatusHot,
				Category: domain.Category{Slug: "tech-nostalgia"},
			},
			{
				ID: "pager-bravo", Name: "Bravo Pager", Slug: "pager-bravo",
				Description: "Numeric pager, belt clip included.",
				Price: 45, Stock: stock(0), Status: domain.StatusSale,
				Category: domain.Category{Slug: "tech-nostalgia"},
			},
			{
				ID: "enigma-replica", Name: "Enigma Rotor Replica", Slug: "enigma-replica",
				Description: "Working three-rotor cipher machine replica.",
				Price: 950, Stock: stock(2), Status: domain.StatusNew,
				Category: domain.Category{Slug: "cryptography-collectibles"},
			},
			{
				ID: "cipher-wheel", Name: "Brass Cipher Wheel", Slug: "cipher-wheel",
				Description: "Alberti disk in solid brass.",
				Price: 35, Discount: pricing.Percent(20), Status: domain.StatusSale,
				Category: domain.Category{Slug: "cryptography-collectibles"},
			},
			{
				ID: "faraday-pouch", Name: "Faraday Phone Pouch", Slug: "faraday-pouch",
				Description: "Blocks cellular, wifi and bluetooth signals.",
				Price: 29, Stock: stock(50), Status: domain.StatusHot,
				Category: domain.Category{Slug: "encrypted-lifestyle"},
			},
			{
				ID: "hardware-key", Name: "USB Hardware Security Key", Slug: "hardware-key",
				Description: "FIDO2 key for passwordless sign in.",
				Price: 55, Stock: stock(25), Status: domain.StatusNew,
				Category: domain.Category{Slug: "digital-security-essentials"},
			},
			{
				ID: "smart-lock", Name: "Offline Smart Lock", Slug: "smart-lock",
				Description: "Keypad lock with no cloud account.",
				Price: 210, Status: domain.StatusNew,
				Category: domain.Category{Slug: "future-tech-home"},
			},
		},
	)
}
