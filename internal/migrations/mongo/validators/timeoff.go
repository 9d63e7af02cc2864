package validators

import "go.mongodb.org/mongo-driver/bson"

var EmployeeTimeOffValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"employee_id",
			"time_off_type",
			"start_date",
			"end_date",
			"is_full_day",
			"is_recurring",
			"status",
			"requested_by",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"employee_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"time_off_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"vacation",
					"sick",
					"personal",
					"other",
				},
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
					"pending",
					"approved",
					"rejected",
					"cancelled",
				},
			},

			"requested_by": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"approved_by": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
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
