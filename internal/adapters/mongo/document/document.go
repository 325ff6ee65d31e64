package document

import (
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Document interface {
	GetID() primitive.ObjectID
}

// objectID converts a domain identifier, yielding the zero ObjectID for
// empty or malformed values.
func objectID(id domain.ID) primitive.ObjectID {
	if id == "" {
		return primitive.NilObjectID
	}
	oid, _ := primitive.ObjectIDFromHex(string(id))
	return oid
}

func domainID(oid primitive.ObjectID) domain.ID {
	if oid.IsZero() {
		return ""
	}
	return domain.ID(oid.Hex())
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, pkgerrors.Wrapf(err, "price %s does not fit decimal128", d)
	}
	return v, nil
}

// priceEncoder converts several prices and keeps the first failure.
type priceEncoder struct {
	err error
}

func (e *priceEncoder) encode(d decimal.Decimal) primitive.Decimal128 {
	v, err := toDecimal128(d)
	if err != nil && e.err == nil {
		e.err = err
	}
	return v
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
