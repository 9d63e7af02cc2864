package validators

import "go.mongodb.org/mongo-driver/bson"

// recurrenceSchema is embedded by every collection that stores a recurrence
// pattern. Weekly patterns carry days_of_week, yearly patterns carry
// anchor_month/anchor_day; the application validator enforces the
// per-frequency exclusivity.
var recurrenceSchema = bson.M{
	"bsonType": "object",
	"required": []string{"frequency", "interval"},
	"properties": bson.M{
		"frequency": bson.M{
			"bsonType": "string",
			"enum": []string{
				"daily",
				"weekly",
				"monthly",
				"yearly",
			},
		},
		"interval": bson.M{
			"bsonType": "int",
			"minimum":  1,
		},
		"days_of_week": bson.M{
			"bsonType": "array",
			"items": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  6,
			},
		},
		"anchor_month": bson.M{
			"bsonType": "int",
			"minimum":  1,
			"maximum":  12,
		},
		"anchor_day": bson.M{
			"bsonType": "int",
			"minimum":  1,
			"maximum":  31,
		},
		"end_date": bson.M{
			"bsonType": "date",
		},
	},
}
