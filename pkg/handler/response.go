package handler

import (
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// okResponse acknowledges a delivery
func okResponse() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}
}

// challengeResponse echoes the url_verification challenge
func challengeResponse(challenge string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Body:       challenge,
		Headers:    map[string]string{"Content-Type": "text/plain"},
	}
}

// badRequest returns a 400 error response
func badRequest(message string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusBadRequest,
		Body:       message,
		Headers:    map[string]string{"Content-Type": "text/plain"},
	}
}

func verificationFailed() events.APIGatewayProxyResponse {
	return badRequest("Verification failed")
}
