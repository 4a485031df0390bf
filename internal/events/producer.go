// Package events publishes project lifecycle notifications to Kafka. Every
// publish is fire-and-forget: a broker outage must never fail or roll back the
// operation that triggered the event.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event is the envelope consumed by the notification service.
type Event struct {
	EventType   string         `json:"eventType"`
	Action      string         `json:"action"`
	ProjectID   *uint          `json:"projectId,omitempty"`
	ProjectName string         `json:"projectName,omitempty"`
	UserID      string         `json:"userId,omitempty"`
	Timestamp   string         `json:"timestamp"`
	Projet      *uint          `json:"projet,omitempty"`
	Lot         *int           `json:"lot,omitempty"`
	Ouvrage     *uint          `json:"ouvrage,omitempty"`
	Bloc        *uint          `json:"bloc,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Producer wraps an async kafka writer. A nil Producer is valid and drops
// everything, so callers never need to check whether eventing is configured.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer returns nil when no brokers are configured.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		Async:    true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Printf("[events] delivery failed (%d messages): %v", len(messages), err)
			}
		},
	}
	return &Producer{writer: w}
}

// Close flushes pending messages. Safe on nil.
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *Producer) send(ev Event) {
	if p == nil || p.writer == nil {
		return
	}
	ev.Timestamp = time.Now().Format(time.RFC3339)
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[events] marshal %s: %v", ev.EventType, err)
		return
	}
	// Async writer: WriteMessages enqueues and returns; failures land in the
	// Completion callback above.
	if err := p.writer.WriteMessages(context.Background(), kafka.Message{Value: body}); err != nil {
		log.Printf("[events] enqueue %s: %v", ev.EventType, err)
	}
}

func (p *Producer) ProjectCreated(projetID uint, name, userID string) {
	p.send(Event{
		EventType:   "PROJECT_CREATED",
		Action:      "projet_ajouter",
		ProjectID:   &projetID,
		ProjectName: name,
		UserID:      userID,
		Projet:      &projetID,
		Metadata:    map[string]any{"projet": projetID, "nom_projet": name},
	})
}

func (p *Producer) ProjectUpdated(projetID uint, name, userID string) {
	p.send(Event{
		EventType:   "PROJECT_UPDATED",
		Action:      "projet_modifier",
		ProjectID:   &projetID,
		ProjectName: name,
		UserID:      userID,
		Projet:      &projetID,
		Metadata:    map[string]any{"projet": projetID, "nom_projet": name},
	})
}

func (p *Producer) OuvrageUpdated(projetID *uint, lotCode *int, ouvrageID uint, oldName, newName, userID string) {
	md := map[string]any{"ouvrage": ouvrageID}
	if projetID != nil {
		md["projet"] = *projetID
	}
	if lotCode != nil {
		md["lot"] = *lotCode
	}
	if oldName != "" {
		md["ouvrage_nom_anc"] = oldName
	}
	if newName != "" {
		md["nom_ouvrage"] = map[string]any{"old": oldName, "new": newName}
	}
	p.send(Event{
		EventType: "OUVRAGE_UPDATED",
		Action:    "ouvrage_modifier",
		ProjectID: projetID,
		UserID:    userID,
		Projet:    projetID,
		Lot:       lotCode,
		Ouvrage:   &ouvrageID,
		Metadata:  md,
	})
}

// ArticleLineage identifies where in the hierarchy an article event happened.
type ArticleLineage struct {
	ProjetID  *uint
	LotCode   *int
	OuvrageID *uint
	BlocID    *uint
}

func (l ArticleLineage) metadata() map[string]any {
	md := map[string]any{}
	if l.ProjetID != nil {
		md["projet"] = *l.ProjetID
	}
	if l.LotCode != nil {
		md["lot"] = *l.LotCode
	}
	if l.OuvrageID != nil {
		md["ouvrage"] = *l.OuvrageID
	}
	if l.BlocID != nil {
		md["bloc"] = *l.BlocID
	}
	return md
}

func (p *Producer) ArticleCreated(l ArticleLineage, articleID uint, catalogID *int, designation string, quantite int, prix float64, userID string) {
	md := l.metadata()
	md["projet_article_id"] = articleID
	if catalogID != nil {
		md["article"] = *catalogID
	}
	if designation != "" {
		md["designation"] = designation
	}
	md["quantite"] = quantite
	md["prix"] = prix
	p.send(Event{
		EventType: "PROJET_ARTICLE_CREATED",
		Action:    "projet_article_ajouter",
		ProjectID: l.ProjetID,
		UserID:    userID,
		Projet:    l.ProjetID,
		Lot:       l.LotCode,
		Ouvrage:   l.OuvrageID,
		Bloc:      l.BlocID,
		Metadata:  md,
	})
}

func (p *Producer) ArticleUpdated(l ArticleLineage, articleID uint, catalogID *int, changes map[string]any, userID string) {
	md := l.metadata()
	md["projet_article_id"] = articleID
	if catalogID != nil {
		md["article"] = *catalogID
	}
	if len(changes) > 0 {
		md["changes"] = changes
	}
	p.send(Event{
		EventType: "PROJET_ARTICLE_UPDATED",
		Action:    "projet_article_modifier",
		ProjectID: l.ProjetID,
		UserID:    userID,
		Projet:    l.ProjetID,
		Lot:       l.LotCode,
		Ouvrage:   l.OuvrageID,
		Bloc:      l.BlocID,
		Metadata:  md,
	})
}

func (p *Producer) ArticleDeleted(l ArticleLineage, articleID uint, catalogID *int, designation string, quantite int, userID string) {
	md := l.metadata()
	md["projet_article_id"] = articleID
	if catalogID != nil {
		md["article"] = *catalogID
	}
	if designation != "" {
		md["designation"] = designation
	}
	md["quantite"] = quantite
	p.send(Event{
		EventType: "PROJET_ARTICLE_DELETED",
		Action:    "projet_article_supprimer",
		ProjectID: l.ProjetID,
		UserID:    userID,
		Projet:    l.ProjetID,
		Lot:       l.LotCode,
		Ouvrage:   l.OuvrageID,
		Bloc:      l.BlocID,
		Metadata:  md,
	})
}
