// Package gateway adapts domain requests and responses to the provider's
// SOAP wire schema. The mappers are pure; the network round-trip lives
// behind the Transport interface.
package gateway

import "encoding/xml"

// SAARequest is the start-authentication request (first contact for a
// session). Field names follow the provider schema.
type SAARequest struct {
	XMLName         xml.Name          `xml:"SAARequest"`
	Applicant       Applicant         `xml:"applicant"`
	ApplicationData ApplicationData   `xml:"applicationData"`
	Control         WireControl       `xml:"control"`
	LocationDetails []LocationDetails `xml:"locationDetails"`
	Residency       []Residency       `xml:"residency"`
}

// RTQRequest is the respond-to-questions request: one response entry per
// answered question, plus the control echo.
type RTQRequest struct {
	XMLName   xml.Name    `xml:"RTQRequest"`
	Control   WireControl `xml:"control"`
	Responses Responses   `xml:"responses"`
}

type Applicant struct {
	ApplicantIdentifier string                `xml:"applicantIdentifier"`
	Name                ApplicantName         `xml:"name"`
	DateOfBirth         *ApplicantDateOfBirth `xml:"dateOfBirth,omitempty"`
}

type ApplicantName struct {
	Title    string `xml:"title,omitempty"`
	Forename string `xml:"forename,omitempty"`
	Surname  string `xml:"surname,omitempty"`
}

type ApplicantDateOfBirth struct {
	CCYY int `xml:"ccyy"`
	MM   int `xml:"mm"`
	DD   int `xml:"dd"`
}

type ApplicationData struct {
	ApplicationType string `xml:"applicationType"`
	Channel         string `xml:"channel"`
	SearchConsent   string `xml:"searchConsent"`
	Product         string `xml:"product"`
}

type WireControl struct {
	URN          string             `xml:"urn,omitempty"`
	AuthRefNo    string             `xml:"authRefNo,omitempty"`
	OperatorID   string             `xml:"operatorID,omitempty"`
	TestDatabase string             `xml:"testDatabase,omitempty"`
	Parameters   *ControlParameters `xml:"parameters,omitempty"`
}

type ControlParameters struct {
	OneShotAuthentication string `xml:"oneShotAuthentication"`
	StoreCaseData         string `xml:"storeCaseData"`
}

type LocationDetails struct {
	LocationIdentifier int        `xml:"locationIdentifier"`
	UKLocation         UKLocation `xml:"ukLocation"`
}

type UKLocation struct {
	HouseName   string `xml:"houseName,omitempty"`
	HouseNumber string `xml:"houseNumber,omitempty"`
	Street      string `xml:"street,omitempty"`
	PostTown    string `xml:"postTown,omitempty"`
	Postcode    string `xml:"postcode,omitempty"`
}

type Residency struct {
	ApplicantIdentifier int `xml:"applicantIdentifier"`
	LocationIdentifier  int `xml:"locationIdentifier"`
}

type Responses struct {
	Response []WireResponse `xml:"response"`
}

type WireResponse struct {
	QuestionID       string `xml:"questionID"`
	AnswerGiven      string `xml:"answerGiven"`
	CustResponseFlag int    `xml:"custResponseFlag"`
	AnswerActionFlag string `xml:"answerActionFlag"`
}

// ProviderResponse is the shared body shape of both provider responses.
// Start-authentication and answer-submission replies differ only in their
// wrapping element, so one decode target serves both operations.
type ProviderResponse struct {
	Questions *WireQuestions `xml:"questions"`
	Control   WireControl    `xml:"control"`
	Results   *WireResults   `xml:"results"`
	Error     *WireError     `xml:"error"`
}

type WireQuestions struct {
	Question       []WireQuestion `xml:"question"`
	SkipsRemaining *int           `xml:"skipsRemaining"`
	SkipWarning    string         `xml:"skipWarning"`
}

type WireQuestion struct {
	QuestionID   string           `xml:"questionID"`
	Text         string           `xml:"text"`
	Tooltip      string           `xml:"tooltip"`
	AnswerFormat WireAnswerFormat `xml:"answerFormat"`
}

type WireAnswerFormat struct {
	Identifier string   `xml:"identifier"`
	FieldType  string   `xml:"fieldType"`
	AnswerList []string `xml:"answerList>string"`
}

type WireResults struct {
	Outcome              string   `xml:"outcome"`
	AuthenticationResult string   `xml:"authenticationResult"`
	NextTransID          []string `xml:"nextTransId>string"`
	ConfirmationCode     string   `xml:"confirmationCode"`
}

type WireError struct {
	ErrorCode    string `xml:"errorCode"`
	ErrorMessage string `xml:"errorMessage"`
}
