package menu

// fallback is the standing weekly menu. Every cell is filled.
var fallback = map[string]DayMenu{
	"monday": {
		Breakfast: "Idli, Vada, Sambar, Coconut Chutney, Coffee/Tea",
		Lunch:     "Rice, Dal, Aloo Gobi, Chapati, Curd, Pickle",
		Snacks:    "Biscuits, Coffee/Tea",
		Dinner:    "Chapati, Paneer Butter Masala, Jeera Rice, Salad",
	},
	"tuesday": {
		Breakfast: "Poha, Boiled Eggs, Bread, Jam, Coffee/Tea",
		Lunch:     "Rice, Rajma, Mixed Vegetable, Chapati, Raita",
		Snacks:    "Samosa, Coffee/Tea",
		Dinner:    "Chapati, Chicken Curry, Rice, Salad, Ice Cream",
	},
	"wednesday": {
		Breakfast: "Dosa, Coconut Chutney, Upma, Coffee/Tea",
		Lunch:     "Rice, Dal Makhani, Bhindi Fry, Chapati, Curd",
		Snacks:    "Vada Pav, Coffee/Tea",
		Dinner:    "Chapati, Egg Curry, Veg Pulao, Raita",
	},
	"thursday": {
		Breakfast: "Paratha, Curd, Fruits, Coffee/Tea",
		Lunch:     "Rice, Kadhi, Aloo Matar, Chapati, Pickle",
		Snacks:    "Kachori, Coffee/Tea",
		Dinner:    "Chapati, Dal Tadka, Veg Biryani, Salad",
	},
	"friday": {
		Breakfast: "Bread Omelette, Cornflakes, Milk, Coffee/Tea",
		Lunch:     "Rice, Chole, Aloo Jeera, Chapati, Raita",
		Snacks:    "Pav Bhaji, Coffee/Tea",
		Dinner:    "Chapati, Mix Veg Curry, Fried Rice, Gulab Jamun",
	},
	"saturday": {
		Breakfast: "Puri, Bhaji, Sprouts, Coffee/Tea",
		Lunch:     "Rice, Dal Fry, Gobi Matar, Chapati, Curd",
		Snacks:    "Bread Pakora, Coffee/Tea",
		Dinner:    "Chapati, Fish Curry, Jeera Rice, Salad",
	},
	"sunday": {
		Breakfast: "Chole Bhature, Fruits, Coffee/Tea",
		Lunch:     "Rice, Sambar, Rasam, Chapati, Papad, Sweet",
		Snacks:    "French Fries, Coffee/Tea",
		Dinner:    "Chapati, Mutton/Paneer Curry, Pulao, Raita, Ice Cream",
	},
}

// Fallback returns the standing menu for a weekday key.
func Fallback(day string) DayMenu {
	d := fallback[day]
	d.Day = day
	return d
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
