package common

import (
	"time"

	"github.com/google/uuid"
)

// Structs for the API response format

type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	RequestID string    `json:"requestId"`
}

// Notice is the short title/message pair a client shows as a dismissable toast.
type Notice struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Variant string `json:"variant"`
}

type APIResponse struct {
	Data     interface{} `json:"data"`
	Errors   []string    `json:"errors"`
	Notice   *Notice     `json:"notice,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// Response functions

func CreateAPIResponse(data interface{}, errors []string, requestID string) APIResponse {
	// If the requestID is blank and not cascading from other functions generate a new one
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return APIResponse{
		Data:   data,
		Errors: errors,
		Metadata: Metadata{
			Timestamp: time.Now(),
			Version:   "v0",
			RequestID: requestID,
		},
	}
}

func CreateSuccessResponse(data interface{}) APIResponse {
	return CreateAPIResponse(
		data,
		[]string{},
		"",
	)
}

func CreateErrorResponse(errors []string) APIResponse {
	return CreateAPIResponse(
		nil,
		errors,
		"",
	)
}

// CreateNoticeResponse is an error response that also carries a toast for the client.
func CreateNoticeResponse(title, message string) APIResponse {
	resp := CreateErrorResponse([]string{message})
	resp.Notice = &Notice{Title: title, Message: message, Variant: "destructive"}
	return resp
}

// CreateSuccessNoticeResponse returns data plus a confirmation toast.
func CreateSuccessNoticeResponse(data interface{}, title, message string) APIResponse {
	resp := CreateSuccessResponse(data)
	resp.Notice = &Notice{Title: title, Message: message, Variant: "default"}
	return resp
}

func CreateSuccessResponseWithRequestID(data interface{}, requestID string) APIResponse {
	return CreateAPIResponse(
		data,
		[]string{},
		requestID,
	)
}

func CreateErrorResponseWithRequestID(errors []string, requestID string) APIResponse {
	return CreateAPIResponse(
		nil,
		errors,
		requestID,
	)
}


/*
This project is the backend API for the hostel mess. Meal slot bookings, weekly menus, announcements, complaints and feedback for residents and the mess office.
MessAPI Copyright (C) 2025 MessAPI contributors
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
