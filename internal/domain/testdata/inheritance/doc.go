package inheritance
