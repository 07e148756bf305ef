package bulkapp

import (
	"context"
	"sort"
	"strconv"
	"strings"

	housingapp "github.com/hostelhub/backend/internal/application/housing"
	identityapp "github.com/hostelhub/backend/internal/application/identity"
	"github.com/hostelhub/backend/internal/domain/bulk"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/shared"
	csvimport "github.com/hostelhub/backend/internal/infrastructure/import"
	"github.com/shopspring/decimal"
)

// StudentColumns is the header of a student import file
var StudentColumns = []string{"email", "name", "phone", "student_number", "gender", "password"}

// RoomColumns is the header of a room import file
var RoomColumns = []string{"number", "block", "floor", "type", "capacity", "monthly_rent", "gender"}

func studentRules() []csvimport.FieldRule {
	return []csvimport.FieldRule{
		csvimport.Field("email").Required().Email().Length(0, 255).Unique().Build(),
		csvimport.Field("name").Required().Length(2, 100).Build(),
		csvimport.Field("phone").Length(0, 20).Build(),
		csvimport.Field("student_number").Length(0, 30).Unique().Build(),
		csvimport.Field("gender").OneOf("MALE", "FEMALE", "OTHER").Build(),
		csvimport.Field("password").Required().Length(8, 72).Build(),
	}
}

func roomRules() []csvimport.FieldRule {
	return []csvimport.FieldRule{
		csvimport.Field("number").Required().Length(1, 20).Unique().Build(),
		csvimport.Field("block").Length(0, 20).Build(),
		csvimport.Field("floor").Int().Range(decimal.Zero, decimal.NewFromInt(200)).Build(),
		csvimport.Field("type").Required().OneOf("SINGLE", "DOUBLE", "TRIPLE", "DORMITORY").Build(),
		csvimport.Field("capacity").Int().Range(decimal.NewFromInt(1), decimal.NewFromInt(20)).Build(),
		csvimport.Field("monthly_rent").Required().Decimal().Min(decimal.Zero).Build(),
		csvimport.Field("gender").OneOf("MALE", "FEMALE", "MIXED").Build(),
	}
}

// ImportStudents creates a STUDENT account per valid row
func (s *Service) ImportStudents(ctx context.Context, actor shared.Actor, input ImportInput) (*ActionResult, error) {
	return s.run(ctx, actor, bulk.ActionImportStudents, input.FileName, func() (*bulk.Result, error) {
		return s.importFile(input.Data, studentRules(), func(row *csvimport.Row) error {
			_, err := s.services.Users.Create(ctx, identityapp.CreateUserInput{
				Email:         strings.ToLower(row.Get("email")),
				Name:          csvimport.TitleName(row.Get("name")),
				Phone:         row.Get("phone"),
				StudentNumber: row.Get("student_number"),
				Gender:        shared.Gender(strings.ToUpper(row.Get("gender"))),
				Password:      row.Get("password"),
				Role:          shared.RoleStudent,
			})
			return err
		})
	})
}

// ImportRooms creates a room per valid row. A missing capacity takes the
// default of the room type.
func (s *Service) ImportRooms(ctx context.Context, actor shared.Actor, input ImportInput) (*ActionResult, error) {
	return s.run(ctx, actor, bulk.ActionImportRooms, input.FileName, func() (*bulk.Result, error) {
		return s.importFile(input.Data, roomRules(), func(row *csvimport.Row) error {
			floor, _ := strconv.Atoi(row.GetOrDefault("floor", "0"))
			capacity, _ := strconv.Atoi(row.GetOrDefault("capacity", "0"))
			rent, _ := decimal.NewFromString(row.Get("monthly_rent"))
			_, err := s.services.Rooms.Create(ctx, housingapp.CreateRoomInput{
				Number:      row.Get("number"),
				Block:       strings.ToUpper(row.Get("block")),
				Floor:       floor,
				Type:        housing.RoomType(strings.ToUpper(row.Get("type"))),
				Capacity:    capacity,
				MonthlyRent: rent,
				Gender:      shared.Gender(strings.ToUpper(row.GetOrDefault("gender", string(shared.GenderMixed)))),
			})
			return err
		})
	})
}

// importFile validates the whole file, reports invalid rows and calls create
// for each valid one. Rows are reported by their line in the file.
func (s *Service) importFile(data []byte, rules []csvimport.FieldRule, create func(*csvimport.Row) error) (*bulk.Result, error) {
	parser, err := csvimport.ParseFromBytes(data, csvimport.WithMaxRows(s.config.MaxImportRows))
	if err != nil {
		return nil, invalidFile(err)
	}
	validated, err := csvimport.Validate(parser, rules, s.config.MaxErrors)
	if err != nil {
		return nil, invalidFile(err)
	}

	result := bulk.NewResult(validated.Total)
	byRow := validated.Errors.ByRow()
	for _, line := range validated.FailedRows() {
		errs := byRow[line]
		if len(errs) == 0 {
			result.FailRow(line, shared.NewDomainError(csvimport.ErrCodeValidation, "row failed validation"))
			continue
		}
		result.FailRow(line, shared.NewDomainError(errs[0].Code, csvimport.RowMessage(errs)))
	}
	for _, row := range validated.Valid {
		if err := create(row); err != nil {
			result.FailRow(row.LineNumber, err)
			continue
		}
		result.Success()
	}
	sortErrors(result)
	return result, nil
}

func invalidFile(err error) error {
	return shared.NewDomainError("INVALID_FILE", err.Error())
}

// sortErrors orders row errors by line so validation and create failures interleave
func sortErrors(r *bulk.Result) {
	sort.SliceStable(r.Errors, func(i, j int) bool { return r.Errors[i].Row < r.Errors[j].Row })
}
