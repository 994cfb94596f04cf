package store

import "github.com/atomicstack/gridscope/internal/vehicle"

// SampleInventory is the built-in catalog used on first run and in tests.
func SampleInventory() []vehicle.Vehicle {
	return []vehicle.Vehicle{
		{VIN: "1FTFW1ET5MFA10001", Manufacturer: "Ford", Model: "F-150", Year: 2021, Price: 45200, Mileage: 31000, Fuel: "gasoline", BodyStyle: "truck", Color: "blue"},
		{VIN: "1FTFW1ET5NFA10002", Manufacturer: "Ford", Model: "F-150", Year: 2022, Price: 52900, Mileage: 12000, Fuel: "hybrid", BodyStyle: "truck", Color: "white"},
		{VIN: "3FMCR9B69PRA10003", Manufacturer: "Ford", Model: "Bronco Sport", Year: 2023, Price: 33400, Mileage: 8000, Fuel: "gasoline", BodyStyle: "suv", Color: "red"},
		{VIN: "1FA6P8TH4L5A10004", Manufacturer: "Ford", Model: "Mustang", Year: 2020, Price: 38900, Mileage: 22000, Fuel: "gasoline", BodyStyle: "coupe", Color: "black"},
		{VIN: "1FMEE5DP8NLA10005", Manufacturer: "Ford", Model: "Mustang Mach-E", Year: 2022, Price: 47800, Mileage: 15000, Fuel: "electric", BodyStyle: "suv", Color: "gray"},
		{VIN: "3GCUYDED4MG110006", Manufacturer: "Chevrolet", Model: "Silverado 1500", Year: 2021, Price: 43800, Mileage: 36000, Fuel: "gasoline", BodyStyle: "truck", Color: "silver"},
		{VIN: "3GCUYDED4NG110007", Manufacturer: "Chevrolet", Model: "Silverado 1500", Year: 2022, Price: 51200, Mileage: 14000, Fuel: "diesel", BodyStyle: "truck", Color: "black"},
		{VIN: "1G1FZ6S00L4110008", Manufacturer: "Chevrolet", Model: "Bolt EV", Year: 2020, Price: 24500, Mileage: 28000, Fuel: "electric", BodyStyle: "hatchback", Color: "white"},
		{VIN: "2GNAXUEV1M6110009", Manufacturer: "Chevrolet", Model: "Equinox", Year: 2021, Price: 26900, Mileage: 25000, Fuel: "gasoline", BodyStyle: "suv", Color: "blue"},
		{VIN: "1G1YB2D40M5110010", Manufacturer: "Chevrolet", Model: "Corvette", Year: 2021, Price: 72900, Mileage: 9000, Fuel: "gasoline", BodyStyle: "coupe", Color: "red"},
		{VIN: "4T1G11AK5MU210011", Manufacturer: "Toyota", Model: "Camry", Year: 2021, Price: 27400, Mileage: 27000, Fuel: "gasoline", BodyStyle: "sedan", Color: "silver"},
		{VIN: "4T1G31AK8NU210012", Manufacturer: "Toyota", Model: "Camry", Year: 2022, Price: 31200, Mileage: 11000, Fuel: "hybrid", BodyStyle: "sedan", Color: "gray"},
		{VIN: "2T3H1RFV8MC210013", Manufacturer: "Toyota", Model: "RAV4", Year: 2021, Price: 32800, Mileage: 19000, Fuel: "hybrid", BodyStyle: "suv", Color: "green"},
		{VIN: "3TMCZ5AN4MM210014", Manufacturer: "Toyota", Model: "Tacoma", Year: 2021, Price: 37600, Mileage: 33000, Fuel: "gasoline", BodyStyle: "truck", Color: "gray"},
		{VIN: "JTDKAMFU5N3210015", Manufacturer: "Toyota", Model: "Prius", Year: 2022, Price: 28300, Mileage: 13000, Fuel: "hybrid", BodyStyle: "hatchback", Color: "white"},
		{VIN: "5YJ3E1EA8MF310016", Manufacturer: "Tesla", Model: "Model 3", Year: 2021, Price: 39900, Mileage: 21000, Fuel: "electric", BodyStyle: "sedan", Color: "white"},
		{VIN: "5YJYGDEE6MF310017", Manufacturer: "Tesla", Model: "Model Y", Year: 2021, Price: 48600, Mileage: 18000, Fuel: "electric", BodyStyle: "suv", Color: "black"},
		{VIN: "5YJSA1E55MF310018", Manufacturer: "Tesla", Model: "Model S", Year: 2021, Price: 79900, Mileage: 16000, Fuel: "electric", BodyStyle: "sedan", Color: "red"},
		{VIN: "1HGCV1F35MA410019", Manufacturer: "Honda", Model: "Accord", Year: 2021, Price: 26800, Mileage: 24000, Fuel: "gasoline", BodyStyle: "sedan", Color: "blue"},
		{VIN: "2HKRW2H59MH410020", Manufacturer: "Honda", Model: "CR-V", Year: 2021, Price: 30100, Mileage: 20000, Fuel: "hybrid", BodyStyle: "suv", Color: "silver"},
		{VIN: "19XFL1H37NE410021", Manufacturer: "Honda", Model: "Civic", Year: 2022, Price: 24900, Mileage: 9000, Fuel: "gasoline", BodyStyle: "hatchback", Color: "orange"},
		{VIN: "WBA5R1C58MFB10022", Manufacturer: "BMW", Model: "330i", Year: 2021, Price: 41800, Mileage: 17000, Fuel: "gasoline", BodyStyle: "sedan", Color: "black"},
		{VIN: "5UXCR6C08M9B10023", Manufacturer: "BMW", Model: "X5", Year: 2021, Price: 61200, Mileage: 23000, Fuel: "hybrid", BodyStyle: "suv", Color: "white"},
		{VIN: "WAUDNAF47MN510024", Manufacturer: "Audi", Model: "A4", Year: 2021, Price: 39200, Mileage: 18000, Fuel: "gasoline", BodyStyle: "sedan", Color: "gray"},
		{VIN: "WA1LAAF74MD510025", Manufacturer: "Audi", Model: "Q7", Year: 2021, Price: 58700, Mileage: 26000, Fuel: "gasoline", BodyStyle: "suv", Color: "blue"},
		{VIN: "1C4HJXDG5MW610026", Manufacturer: "Jeep", Model: "Wrangler", Year: 2021, Price: 41300, Mileage: 29000, Fuel: "gasoline", BodyStyle: "suv", Color: "green"},
		{VIN: "1C6SRFFT4MN610027", Manufacturer: "Ram", Model: "1500", Year: 2021, Price: 44700, Mileage: 35000, Fuel: "gasoline", BodyStyle: "truck", Color: "red"},
		{VIN: "KM8J3CAL6MU710028", Manufacturer: "Hyundai", Model: "Tucson", Year: 2021, Price: 27900, Mileage: 22000, Fuel: "hybrid", BodyStyle: "suv", Color: "silver"},
		{VIN: "KNDC3DLC5N5710029", Manufacturer: "Kia", Model: "EV6", Year: 2022, Price: 44100, Mileage: 10000, Fuel: "electric", BodyStyle: "suv", Color: "yellow"},
		{VIN: "1N4BL4BV8MN810030", Manufacturer: "Nissan", Model: "Altima", Year: 2021, Price: 23800, Mileage: 30000, Fuel: "gasoline", BodyStyle: "sedan", Color: "white"},
	}
}
