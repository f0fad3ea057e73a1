package feedback

import (
	"time"

	"MessAPI/internal/v0/common"
)

const (
	TableName         = "feedbacks"
	ResponseTableName = "admin_responses"
)

type Rating string

const (
	RatingExcellent Rating = "excellent"
	RatingGood      Rating = "good"
	RatingAverage   Rating = "average"
	RatingPoor      Rating = "poor"
)

func (r Rating) Valid() bool {
	switch r {
	case RatingExcellent, RatingGood, RatingAverage, RatingPoor:
		return true
	}
	return false
}

type Feedback struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"userId"`
	MealType  common.MealType `json:"mealType"`
	Rating    Rating          `json:"rating"`
	Comment   string          `json:"comment"`
	CreatedAt time.Time       `json:"createdAt"`
	Responses []Response      `json:"responses"`
}

// Response is an office reply to one feedback.
type Response struct {
	ID         string    `json:"id"`
	FeedbackID string    `json:"feedbackId"`
	AdminID    string    `json:"adminId"`
	Response   string    `json:"response"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Reviewed is a feedback joined with its author for the office list.
type Reviewed struct {
	Feedback
	ReporterName string `json:"reporterName"`
	RoomNumber   string `json:"roomNumber"`
}

type SubmitRequest struct {
	MealType string `json:"mealType" binding:"required"`
	Rating   Rating `json:"rating"`
	Comment  string `json:"comment"`
}

type RespondRequest struct {
	Response string `json:"response" binding:"required"`
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
