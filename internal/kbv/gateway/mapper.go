package gateway

import (
	"github.com/google/uuid"

	"kbvcri/internal/identity"
	"kbvcri/internal/kbv/models"
	"kbvcri/pkg/platform/strutil"
)

// DefaultStrategy is the question-selection policy sent when the caller
// supplies none.
const DefaultStrategy = "3 out of 4"

// DefaultTitle is required by the provider schema even when unknown.
const DefaultTitle = "MR"

// Protocol constants for answer submission. These are wire-level flags, not
// business logic: every response is an update with a zero customer flag.
const (
	answerActionUpdate   = "U"
	custResponseFlagNone = 0
)

// Mapper builds provider wire requests from domain requests and normalizes
// provider responses. It holds only static protocol configuration.
type Mapper struct {
	operatorID string
}

// NewMapper constructs a mapper stamping the given operator id on every
// start-authentication control block.
func NewMapper(operatorID string) *Mapper {
	return &Mapper{operatorID: operatorID}
}

// BuildStartRequest maps a first-contact question request onto the SAA wire
// shape. Blank identity fields are omitted entirely, never sent as empty
// strings. A missing urn gets a freshly generated token; a missing strategy
// falls back to DefaultStrategy.
func (m *Mapper) BuildStartRequest(req models.QuestionRequest) *SAARequest {
	saa := &SAARequest{
		ApplicationData: ApplicationData{
			ApplicationType: "IG",
			Channel:         "IN",
			SearchConsent:   "Y",
			Product:         req.Strategy,
		},
		Control: WireControl{
			URN:          req.URN,
			OperatorID:   m.operatorID,
			TestDatabase: "A",
			Parameters: &ControlParameters{
				OneShotAuthentication: "N",
				StoreCaseData:         "P",
			},
		},
	}
	if strutil.IsBlank(req.Strategy) {
		saa.ApplicationData.Product = DefaultStrategy
	}
	if strutil.IsBlank(req.URN) {
		saa.Control.URN = uuid.NewString()
	}

	m.setApplicant(saa, req.PersonIdentity)
	m.setLocationDetails(saa, req.PersonIdentity)
	saa.Residency = []Residency{{ApplicantIdentifier: 1, LocationIdentifier: 1}}
	return saa
}

func (m *Mapper) setApplicant(saa *SAARequest, person identity.PersonIdentity) {
	name := ApplicantName{Title: DefaultTitle}
	if strutil.IsNotBlank(person.FirstName) {
		name.Forename = person.FirstName
	}
	if strutil.IsNotBlank(person.Surname) {
		name.Surname = person.Surname
	}

	saa.Applicant = Applicant{
		ApplicantIdentifier: "1",
		Name:                name,
	}
	if !person.DateOfBirth.IsZero() {
		saa.Applicant.DateOfBirth = &ApplicantDateOfBirth{
			CCYY: person.DateOfBirth.Year(),
			MM:   int(person.DateOfBirth.Month()),
			DD:   person.DateOfBirth.Day(),
		}
	}
}

func (m *Mapper) setLocationDetails(saa *SAARequest, person identity.PersonIdentity) {
	if len(person.Addresses) == 0 {
		return
	}
	locations := make([]LocationDetails, 0, len(person.Addresses))
	for i, addr := range person.Addresses {
		location := UKLocation{
			Postcode: addr.PostalCode,
			PostTown: addr.AddressLocality,
			Street:   addr.StreetName,
		}
		if strutil.IsNotBlank(addr.BuildingName) {
			location.HouseName = addr.BuildingName
		}
		if strutil.IsNotBlank(addr.BuildingNumber) {
			location.HouseNumber = addr.BuildingNumber
		}
		locations = append(locations, LocationDetails{
			LocationIdentifier: i + 1,
			UKLocation:         location,
		})
	}
	saa.LocationDetails = locations
}

// BuildAnswerRequest maps recorded answers onto the RTQ wire shape: one
// response entry per pair, each flagged as an update.
func (m *Mapper) BuildAnswerRequest(req models.QuestionAnswerRequest) *RTQRequest {
	responses := make([]WireResponse, len(req.Answers))
	for i, answer := range req.Answers {
		responses[i] = WireResponse{
			QuestionID:       answer.QuestionID,
			AnswerGiven:      answer.Answer,
			CustResponseFlag: custResponseFlagNone,
			AnswerActionFlag: answerActionUpdate,
		}
	}
	return &RTQRequest{
		Control: WireControl{
			AuthRefNo: req.Control.AuthRefNo,
			URN:       req.Control.URN,
		},
		Responses: Responses{Response: responses},
	}
}

// ParseResponse normalizes either provider response body into the single
// domain result shape. A structured provider error becomes part of the
// result; it is never raised as a transport fault.
func (m *Mapper) ParseResponse(raw *ProviderResponse) *models.QuestionsResponse {
	resp := &models.QuestionsResponse{
		Control: models.Control{
			AuthRefNo: raw.Control.AuthRefNo,
			URN:       raw.Control.URN,
		},
	}

	if raw.Questions != nil {
		resp.SkipsRemaining = raw.Questions.SkipsRemaining
		resp.SkipWarning = raw.Questions.SkipWarning
		questions := make([]models.Question, len(raw.Questions.Question))
		for i, q := range raw.Questions.Question {
			questions[i] = models.Question{
				ID:      q.QuestionID,
				Text:    q.Text,
				Tooltip: q.Tooltip,
				AnswerFormat: models.AnswerFormat{
					Identifier: q.AnswerFormat.Identifier,
					FieldType:  q.AnswerFormat.FieldType,
					Options:    q.AnswerFormat.AnswerList,
				},
			}
		}
		resp.Questions = questions
	}

	if raw.Results != nil {
		resp.Results = &models.Results{
			Outcome:              raw.Results.Outcome,
			AuthenticationResult: raw.Results.AuthenticationResult,
			NextTransIDs:         raw.Results.NextTransID,
			ConfirmationCode:     raw.Results.ConfirmationCode,
		}
	}

	if raw.Error != nil {
		resp.Error = &models.ProviderError{
			Code:    raw.Error.ErrorCode,
			Message: raw.Error.ErrorMessage,
		}
	}

	return resp
}
