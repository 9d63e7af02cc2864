package validators

import "go.mongodb.org/mongo-driver/bson"

var ClosurePeriodValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"owner_scope",
			"owner_id",
			"name",
			"start_date",
			"end_date",
			"is_full_day",
			"is_recurring",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"owner_scope": bson.M{
				"bsonType": "string",
				"enum": []string{
					"business",
					"place",
				},
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},

			"is_full_day": bson.M{
				"bsonType": "bool",
			},

			"half_day_period": bson.M{
				"bsonType": "string",
				"enum": []string{
					"am",
					"pm",
				},
			},

			"is_recurring": bson.M{
				"bsonType": "bool",
			},

			"recurrence": recurrenceSchema,

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"active",
					"inactive",
				},
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
