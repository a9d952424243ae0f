package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	admindomain "github.com/jejak-app/jejak/api/internal/admin/domain"
	reportdomain "github.com/jejak-app/jejak/api/internal/report/domain"
)

// LocationDocument はレポートの座標を保持する埋め込みドキュメント。
type LocationDocument struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

// ReportDocument は MongoDB 上でのレポートスキーマを Go 構造体として表現したもの。
type ReportDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title"`
	Description     string             `bson:"description"`
	Category        string             `bson:"category"`
	Priority        int                `bson:"priority,omitempty"`
	Status          string             `bson:"status"`
	PhotoPath       string             `bson:"photoPath"`
	Location        LocationDocument   `bson:"location"`
	Address         string             `bson:"address,omitempty"`
	Moderation      bool               `bson:"moderation"`
	Response        string             `bson:"response,omitempty"`
	ReporterName    string             `bson:"reporterName,omitempty"`
	ReporterContact string             `bson:"reporterContact,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

// AccountDocument は管理者アカウントのスキーマ。
type AccountDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Name         string             `bson:"name,omitempty"`
	PasswordHash []byte             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func mapReportDocument(doc ReportDocument) reportdomain.Report {
	return reportdomain.Report{
		ID:              doc.ID.Hex(),
		Title:           doc.Title,
		Description:     doc.Description,
		Category:        reportdomain.CategoryOrOther(doc.Category),
		Priority:        reportdomain.Priority(doc.Priority),
		Status:          reportdomain.Status(doc.Status),
		PhotoPath:       doc.PhotoPath,
		Location:        reportdomain.Location{Latitude: doc.Location.Lat, Longitude: doc.Location.Lng},
		Address:         doc.Address,
		Moderation:      doc.Moderation,
		Response:        doc.Response,
		ReporterName:    doc.ReporterName,
		ReporterContact: doc.ReporterContact,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

func buildReportDocument(r *reportdomain.Report) ReportDocument {
	return ReportDocument{
		Title:           r.Title,
		Description:     r.Description,
		Category:        r.Category.String(),
		Priority:        int(r.Priority),
		Status:          r.Status.String(),
		PhotoPath:       r.PhotoPath,
		Location:        LocationDocument{Lat: r.Location.Latitude, Lng: r.Location.Longitude},
		Address:         r.Address,
		Moderation:      r.Moderation,
		Response:        r.Response,
		ReporterName:    r.ReporterName,
		ReporterContact: r.ReporterContact,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func mapAccountDocument(doc AccountDocument) admindomain.Account {
	return admindomain.Account{
		ID:           doc.ID.Hex(),
		Email:        admindomain.Email(doc.Email),
		Name:         doc.Name,
		PasswordHash: append([]byte(nil), doc.PasswordHash...),
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}
