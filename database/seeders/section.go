package seeders

import (
	"context"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"
	"acenumerik.fr/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultSections is the homepage a fresh install starts from.
var defaultSections = []struct {
	section models.Section
	payload models.SectionPayload
}{
	{
		models.Section{ID: "hero", Type: models.SectionHero, Title: "Accueil", Visible: true},
		models.HeroContent{
			Headline:    "Votre croissance, notre métier",
			Subheadline: "Sites, contenus et stratégie digitale pour les PME.",
			CTALabel:    "Prendre rendez-vous",
			CTAURL:      "/booking",
		},
	},
	{
		models.Section{ID: "services", Type: models.SectionServices, Title: "Nos services", Visible: true},
		models.ServicesContent{
			Intro: "Des offres claires, adaptées à chaque étape.",
			Items: []models.ServiceItem{
				{Title: "Création de site", Description: "Des sites rapides et faciles à administrer."},
				{Title: "Référencement", Description: "Gagnez en visibilité sur les moteurs de recherche."},
				{Title: "Réseaux sociaux", Description: "Une présence cohérente et régulière."},
			},
		},
	},
	{
		models.Section{ID: "about", Type: models.SectionAbout, Title: "À propos", Visible: true},
		models.AboutContent{Heading: "Une agence à taille humaine", Body: "ace numérik accompagne les entreprises dans leur transformation digitale."},
	},
	{
		models.Section{ID: "team", Type: models.SectionTeam, Title: "L'équipe", Visible: true},
		models.TeamContent{Intro: "Les personnes derrière vos projets."},
	},
	{
		models.Section{ID: "testimonials", Type: models.SectionTestimonials, Title: "Ils nous font confiance", Visible: true},
		models.TestimonialsContent{Limit: 6},
	},
	{
		models.Section{ID: "trusted-clients", Type: models.SectionTrustedClients, Title: "Nos clients", Visible: true},
		models.TrustedClientsContent{Grayscale: true},
	},
	{
		models.Section{ID: "faq", Type: models.SectionFAQ, Title: "Questions fréquentes", Visible: true},
		models.FAQContent{},
	},
	{
		models.Section{ID: "contact", Type: models.SectionContact, Title: "Contact", Visible: true},
		models.ContactContent{Email: "contact@acenumerik.fr", ShowForm: true},
	},
}

// SeedSections writes the default homepage when no section exists yet. An
// existing configuration is never overwritten.
func SeedSections(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Section{}).Count(&count).Error; err != nil {
		configslog.Log.Error("Failed to count sections", zap.Error(err))
		return err
	}
	if count > 0 {
		configslog.SLog.Infof("Sections already configured (%d), skipping", count)
		return nil
	}

	sections := make([]models.Section, len(defaultSections))
	data := make([]models.SectionData, len(defaultSections))
	for i, d := range defaultSections {
		sections[i] = d.section
		sections[i].Order = i
		payload, err := models.EncodeSectionPayload(d.payload)
		if err != nil {
			return err
		}
		data[i] = models.SectionData{SectionID: d.section.ID, Type: d.section.Type, Payload: payload}
	}

	if err := repositories.NewSectionRepositoryTx(db).ReplaceAll(context.Background(), sections, data); err != nil {
		configslog.Log.Error("Failed to seed default sections", zap.Error(err))
		return err
	}
	configslog.SLog.Infof("%d default sections seeded", len(sections))
	return nil
}
