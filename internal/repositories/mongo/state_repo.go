package mongo

import (
	"context"
	"errors"
	"fmt"

	"leetracker/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	questionsDocID = "questions"
	progressDocID  = "progress"
)

// questionDoc mirrors models.Question with bson tags.
type questionDoc struct {
	ID             string   `bson:"id"`
	Title          string   `bson:"title"`
	Difficulty     string   `bson:"difficulty"`
	Frequency      float64  `bson:"frequency"`
	AcceptanceRate float64  `bson:"acceptance_rate"`
	Link           string   `bson:"link,omitempty"`
	Topics         []string `bson:"topics"`
	Company        string   `bson:"company"`
	Completed      bool     `bson:"completed"`
}

type progressDoc struct {
	Date        string   `bson:"date"`
	QuestionIDs []string `bson:"question_ids"`
	Count       int      `bson:"count"`
}

// stateDoc holds a whole collection in one document, so each Save is a
// single-document replace. SaveAll writes both documents in a transaction.
type stateDoc struct {
	ID        string        `bson:"_id"`
	Questions []questionDoc `bson:"questions,omitempty"`
	Progress  []progressDoc `bson:"progress,omitempty"`
}

// Repo wraps the state collection.
type Repo struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewStateRepo(c *Client, dbName, collection string) (*Repo, error) {
	db, err := c.DB(dbName)
	if err != nil {
		return nil, err
	}
	if collection == "" {
		collection = "tracker_state"
	}
	return &Repo{client: c.raw, col: db.Collection(collection)}, nil
}

func (r *Repo) LoadQuestions(ctx context.Context) ([]models.Question, error) {
	doc, err := r.find(ctx, questionsDocID)
	if err != nil {
		return nil, err
	}
	return questionsFromDocs(doc.Questions), nil
}

func (r *Repo) SaveQuestions(ctx context.Context, questions []models.Question) error {
	return r.replace(ctx, questionsState(questions))
}

func (r *Repo) LoadProgress(ctx context.Context) ([]models.DailyProgress, error) {
	doc, err := r.find(ctx, progressDocID)
	if err != nil {
		return nil, err
	}
	return progressFromDocs(doc.Progress), nil
}

func (r *Repo) SaveProgress(ctx context.Context, progress []models.DailyProgress) error {
	return r.replace(ctx, progressState(progress))
}

// SaveAll replaces both state documents in one session transaction. The
// server must be a replica set or sharded cluster for transactions to run.
func (r *Repo) SaveAll(ctx context.Context, questions []models.Question, progress []models.DailyProgress) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, doc := range []stateDoc{questionsState(questions), progressState(progress)} {
			if err := r.replace(sc, doc); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *Repo) find(ctx context.Context, id string) (stateDoc, error) {
	var doc stateDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return stateDoc{ID: id}, nil
	}
	if err != nil {
		return stateDoc{}, fmt.Errorf("find %s: %w", id, err)
	}
	return doc, nil
}

func (r *Repo) replace(ctx context.Context, doc stateDoc) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace %s: %w", doc.ID, err)
	}
	return nil
}

func questionsState(questions []models.Question) stateDoc {
	return stateDoc{ID: questionsDocID, Questions: questionsToDocs(questions)}
}

func progressState(progress []models.DailyProgress) stateDoc {
	return stateDoc{ID: progressDocID, Progress: progressToDocs(progress)}
}

func questionsToDocs(questions []models.Question) []questionDoc {
	out := make([]questionDoc, len(questions))
	for i, q := range questions {
		out[i] = questionDoc{
			ID:             q.ID,
			Title:          q.Title,
			Difficulty:     string(q.Difficulty),
			Frequency:      q.Frequency,
			AcceptanceRate: q.AcceptanceRate,
			Link:           q.Link,
			Topics:         q.Topics,
			Company:        q.Company,
			Completed:      q.Completed,
		}
	}
	return out
}

func questionsFromDocs(docs []questionDoc) []models.Question {
	out := make([]models.Question, len(docs))
	for i, d := range docs {
		topics := d.Topics
		if topics == nil {
			topics = []string{}
		}
		out[i] = models.Question{
			ID:             d.ID,
			Title:          d.Title,
			Difficulty:     models.Difficulty(d.Difficulty),
			Frequency:      d.Frequency,
			AcceptanceRate: d.AcceptanceRate,
			Link:           d.Link,
			Topics:         topics,
			Company:        d.Company,
			Completed:      d.Completed,
		}
	}
	return out
}

func progressToDocs(days []models.DailyProgress) []progressDoc {
	out := make([]progressDoc, len(days))
	for i, d := range days {
		out[i] = progressDoc{Date: d.Date, QuestionIDs: d.QuestionIDs, Count: d.Count}
	}
	return out
}

func progressFromDocs(docs []progressDoc) []models.DailyProgress {
	out := make([]models.DailyProgress, len(docs))
	for i, d := range docs {
		ids := d.QuestionIDs
		if ids == nil {
			ids = []string{}
		}
		out[i] = models.DailyProgress{Date: d.Date, QuestionIDs: ids, Count: d.Count}
	}
	return out
}
